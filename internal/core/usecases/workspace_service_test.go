package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
	"github.com/tkaczmarek/geoscope/internal/core/usecases"
)

// --- Mock GroupRepository ---

type mockGroupRepo struct {
	listByUserFn func(ctx context.Context, userID string) ([]domain.Group, error)
	getByIDFn    func(ctx context.Context, id int) (*domain.Group, error)
	createFn     func(ctx context.Context, userID, name string) (*domain.Group, error)
	deleteFn     func(ctx context.Context, id int) error
}

func (m *mockGroupRepo) ListByUser(ctx context.Context, userID string) ([]domain.Group, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGroupRepo) GetByID(ctx context.Context, id int) (*domain.Group, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockGroupRepo) Create(ctx context.Context, userID, name string) (*domain.Group, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, name)
	}
	return &domain.Group{ID: 1, UserID: userID, Name: name}, nil
}

func (m *mockGroupRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock FeatureRepository ---

type mockFeatureRepo struct {
	listByGroupFn func(ctx context.Context, groupID int) ([]domain.SavedFeature, error)
	getByIDFn     func(ctx context.Context, id int) (*domain.SavedFeature, error)
	createFn      func(ctx context.Context, f *domain.SavedFeature) (*domain.SavedFeature, error)
	deleteFn      func(ctx context.Context, id int) error
}

func (m *mockFeatureRepo) ListByGroup(ctx context.Context, groupID int) ([]domain.SavedFeature, error) {
	if m.listByGroupFn != nil {
		return m.listByGroupFn(ctx, groupID)
	}
	return nil, nil
}

func (m *mockFeatureRepo) GetByID(ctx context.Context, id int) (*domain.SavedFeature, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockFeatureRepo) Create(ctx context.Context, f *domain.SavedFeature) (*domain.SavedFeature, error) {
	if m.createFn != nil {
		return m.createFn(ctx, f)
	}
	out := *f
	out.ID = 1
	return &out, nil
}

func (m *mockFeatureRepo) Delete(ctx context.Context, id int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func ownedBy(userID string) *mockGroupRepo {
	return &mockGroupRepo{
		getByIDFn: func(ctx context.Context, id int) (*domain.Group, error) {
			return &domain.Group{ID: id, UserID: userID, Name: "recon"}, nil
		},
	}
}

// --- Tests ---

func TestWorkspaceService_CreateGroup_RejectsBlankName(t *testing.T) {
	svc := usecases.NewWorkspaceService(&mockGroupRepo{}, &mockFeatureRepo{})

	_, err := svc.CreateGroup(context.Background(), "u1", "   ")
	var verr *usecases.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWorkspaceService_DeleteGroup_OtherUsersGroupIsForbidden(t *testing.T) {
	deleted := false
	groups := ownedBy("owner")
	groups.deleteFn = func(ctx context.Context, id int) error {
		deleted = true
		return nil
	}
	svc := usecases.NewWorkspaceService(groups, &mockFeatureRepo{})

	err := svc.DeleteGroup(context.Background(), "intruder", 7)
	if !errors.Is(err, usecases.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if deleted {
		t.Error("delete must not reach the repository")
	}
}

func TestWorkspaceService_DeleteGroup_MissingGroupIsNotFound(t *testing.T) {
	svc := usecases.NewWorkspaceService(&mockGroupRepo{}, &mockFeatureRepo{})

	err := svc.DeleteGroup(context.Background(), "u1", 404)
	if !errors.Is(err, usecases.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkspaceService_SaveFeature_OpacityBounds(t *testing.T) {
	svc := usecases.NewWorkspaceService(ownedBy("u1"), &mockFeatureRepo{})

	f := &domain.SavedFeature{
		GroupID:     1,
		FeatureType: "polygon",
		GeojsonData: `{"type":"Feature"}`,
		Opacity:     1.5,
	}
	_, err := svc.SaveFeature(context.Background(), "u1", f)
	var verr *usecases.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error for opacity 1.5, got %v", err)
	}

	f.Opacity = 0.8
	saved, err := svc.SaveFeature(context.Background(), "u1", f)
	if err != nil {
		t.Fatalf("opacity 0.8 must be accepted: %v", err)
	}
	if saved.Opacity != 0.8 {
		t.Errorf("expected opacity 0.8, got %g", saved.Opacity)
	}
}

func TestWorkspaceService_SaveFeature_Defaults(t *testing.T) {
	svc := usecases.NewWorkspaceService(ownedBy("u1"), &mockFeatureRepo{})

	saved, err := svc.SaveFeature(context.Background(), "u1", &domain.SavedFeature{
		GroupID:     1,
		FeatureType: "point",
		GeojsonData: `{"type":"Feature"}`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Color != domain.DefaultFeatureColor {
		t.Errorf("expected default color, got %s", saved.Color)
	}
	if saved.Opacity != domain.DefaultFeatureOpacity {
		t.Errorf("expected default opacity, got %g", saved.Opacity)
	}
}

func TestWorkspaceService_SaveFeature_GeojsonUntouched(t *testing.T) {
	raw := `{"type":"Feature","geometry":{"type":"Point","coordinates":[ -73.99 , 40.73 ]}}`
	svc := usecases.NewWorkspaceService(ownedBy("u1"), &mockFeatureRepo{})

	saved, err := svc.SaveFeature(context.Background(), "u1", &domain.SavedFeature{
		GroupID:     1,
		FeatureType: "point",
		GeojsonData: raw,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.GeojsonData != raw {
		t.Error("geojson payload must round-trip byte-for-byte")
	}
}

func TestWorkspaceService_DeleteFeature_ChecksOwnershipViaGroup(t *testing.T) {
	features := &mockFeatureRepo{
		getByIDFn: func(ctx context.Context, id int) (*domain.SavedFeature, error) {
			return &domain.SavedFeature{ID: id, GroupID: 3}, nil
		},
	}
	svc := usecases.NewWorkspaceService(ownedBy("owner"), features)

	if err := svc.DeleteFeature(context.Background(), "intruder", 9); !errors.Is(err, usecases.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteFeature(context.Background(), "owner", 9); err != nil {
		t.Fatalf("owner delete must succeed: %v", err)
	}
}

func TestWorkspaceService_FeatureTypeLength(t *testing.T) {
	svc := usecases.NewWorkspaceService(ownedBy("u1"), &mockFeatureRepo{})

	long := make([]byte, domain.MaxFeatureTypeLen+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err := svc.SaveFeature(context.Background(), "u1", &domain.SavedFeature{
		GroupID:     1,
		FeatureType: string(long),
		GeojsonData: "{}",
	})
	var verr *usecases.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
