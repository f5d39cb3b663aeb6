package ports

import (
	"context"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// GroupRepository persists user workspaces.
type GroupRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Group, error)
	GetByID(ctx context.Context, id int) (*domain.Group, error)
	Create(ctx context.Context, userID, name string) (*domain.Group, error)
	// Delete removes the group and all of its features in one transaction.
	Delete(ctx context.Context, id int) error
}

// FeatureRepository persists saved drawn geometries.
type FeatureRepository interface {
	ListByGroup(ctx context.Context, groupID int) ([]domain.SavedFeature, error)
	GetByID(ctx context.Context, id int) (*domain.SavedFeature, error)
	Create(ctx context.Context, f *domain.SavedFeature) (*domain.SavedFeature, error)
	Delete(ctx context.Context, id int) error
}
