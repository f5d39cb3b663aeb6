package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/tkaczmarek/geoscope/internal/core/domain"
)

// GroupRepo implements ports.GroupRepository.
type GroupRepo struct {
	db *DB
}

func NewGroupRepo(db *DB) *GroupRepo {
	return &GroupRepo{db: db}
}

func (r *GroupRepo) ListByUser(ctx context.Context, userID string) ([]domain.Group, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, user_id, name, created_at
		FROM groups WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := []domain.Group{}
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *GroupRepo) GetByID(ctx context.Context, id int) (*domain.Group, error) {
	g := &domain.Group{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, created_at FROM groups WHERE id = $1
	`, id).Scan(&g.ID, &g.UserID, &g.Name, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *GroupRepo) Create(ctx context.Context, userID, name string) (*domain.Group, error) {
	g := &domain.Group{}
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO groups (user_id, name) VALUES ($1, $2)
		RETURNING id, user_id, name, created_at
	`, userID, name).Scan(&g.ID, &g.UserID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a group and its features atomically. Features go first so a
// failure never leaves orphaned rows visible.
func (r *GroupRepo) Delete(ctx context.Context, id int) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM saved_features WHERE group_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
