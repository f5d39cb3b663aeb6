package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/core/ports"
)

// Sentinel errors let the transport layer pick a status code without
// inspecting messages.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries a field-level rejection message for the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// WorkspaceService handles group and saved-feature business logic. Every
// operation on an existing resource checks ownership against the caller's
// hashed identity before touching rows.
type WorkspaceService struct {
	groups   ports.GroupRepository
	features ports.FeatureRepository
}

// NewWorkspaceService creates a new WorkspaceService.
func NewWorkspaceService(groups ports.GroupRepository, features ports.FeatureRepository) *WorkspaceService {
	return &WorkspaceService{groups: groups, features: features}
}

// ListGroups returns the caller's groups, newest first.
func (s *WorkspaceService) ListGroups(ctx context.Context, userID string) ([]domain.Group, error) {
	return s.groups.ListByUser(ctx, userID)
}

// CreateGroup creates a named group owned by the caller.
func (s *WorkspaceService) CreateGroup(ctx context.Context, userID, name string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Message: "group name is required"}
	}
	return s.groups.Create(ctx, userID, name)
}

// DeleteGroup removes a group and all of its features. The cascade is a
// single transaction in the repository.
func (s *WorkspaceService) DeleteGroup(ctx context.Context, userID string, groupID int) error {
	if _, err := s.ownedGroup(ctx, userID, groupID); err != nil {
		return err
	}
	return s.groups.Delete(ctx, groupID)
}

// ListFeatures returns the features in one of the caller's groups.
func (s *WorkspaceService) ListFeatures(ctx context.Context, userID string, groupID int) ([]domain.SavedFeature, error) {
	if _, err := s.ownedGroup(ctx, userID, groupID); err != nil {
		return nil, err
	}
	return s.features.ListByGroup(ctx, groupID)
}

// SaveFeature stores a drawn geometry in one of the caller's groups. The
// GeoJSON payload is opaque; only field bounds are validated.
func (s *WorkspaceService) SaveFeature(ctx context.Context, userID string, f *domain.SavedFeature) (*domain.SavedFeature, error) {
	if _, err := s.ownedGroup(ctx, userID, f.GroupID); err != nil {
		return nil, err
	}

	if f.FeatureType == "" {
		return nil, &ValidationError{Message: "featureType is required"}
	}
	if len(f.FeatureType) > domain.MaxFeatureTypeLen {
		return nil, &ValidationError{Message: fmt.Sprintf("featureType must be at most %d characters", domain.MaxFeatureTypeLen)}
	}
	if f.GeojsonData == "" {
		return nil, &ValidationError{Message: "geojsonData is required"}
	}
	if f.Color == "" {
		f.Color = domain.DefaultFeatureColor
	}
	if len(f.Color) > domain.MaxColorLen {
		return nil, &ValidationError{Message: fmt.Sprintf("color must be at most %d characters", domain.MaxColorLen)}
	}
	if f.Opacity == 0 {
		f.Opacity = domain.DefaultFeatureOpacity
	}
	if f.Opacity < domain.MinOpacity || f.Opacity > domain.MaxOpacity {
		return nil, &ValidationError{Message: fmt.Sprintf("opacity must be between %g and %g", domain.MinOpacity, domain.MaxOpacity)}
	}

	return s.features.Create(ctx, f)
}

// DeleteFeature removes a single saved geometry. Ownership runs through the
// containing group.
func (s *WorkspaceService) DeleteFeature(ctx context.Context, userID string, featureID int) error {
	f, err := s.features.GetByID(ctx, featureID)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrNotFound
	}
	if _, err := s.ownedGroup(ctx, userID, f.GroupID); err != nil {
		return err
	}
	return s.features.Delete(ctx, featureID)
}

func (s *WorkspaceService) ownedGroup(ctx context.Context, userID string, groupID int) (*domain.Group, error) {
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNotFound
	}
	if g.UserID != userID {
		return nil, ErrForbidden
	}
	return g, nil
}
