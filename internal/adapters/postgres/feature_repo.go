package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// FeatureRepo implements ports.FeatureRepository.
type FeatureRepo struct {
	db *DB
}

func NewFeatureRepo(db *DB) *FeatureRepo {
	return &FeatureRepo{db: db}
}

func (r *FeatureRepo) ListByGroup(ctx context.Context, groupID int) ([]domain.SavedFeature, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, group_id, feature_type, geojson_data, color, opacity, created_at
		FROM saved_features WHERE group_id = $1 ORDER BY created_at
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	features := []domain.SavedFeature{}
	for rows.Next() {
		var f domain.SavedFeature
		if err := rows.Scan(&f.ID, &f.GroupID, &f.FeatureType, &f.GeojsonData,
			&f.Color, &f.Opacity, &f.CreatedAt); err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, rows.Err()
}

func (r *FeatureRepo) GetByID(ctx context.Context, id int) (*domain.SavedFeature, error) {
	f := &domain.SavedFeature{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, group_id, feature_type, geojson_data, color, opacity, created_at
		FROM saved_features WHERE id = $1
	`, id).Scan(&f.ID, &f.GroupID, &f.FeatureType, &f.GeojsonData, &f.Color, &f.Opacity, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FeatureRepo) Create(ctx context.Context, in *domain.SavedFeature) (*domain.SavedFeature, error) {
	f := &domain.SavedFeature{}
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO saved_features (group_id, feature_type, geojson_data, color, opacity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, feature_type, geojson_data, color, opacity, created_at
	`, in.GroupID, in.FeatureType, in.GeojsonData, in.Color, in.Opacity).
		Scan(&f.ID, &f.GroupID, &f.FeatureType, &f.GeojsonData, &f.Color, &f.Opacity, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *FeatureRepo) Delete(ctx context.Context, id int) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM saved_features WHERE id = $1`, id)
	return err
}
