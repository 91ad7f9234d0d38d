package repository

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AvatarRepository handles database operations for avatars
type AvatarRepository struct {
	db *pgxpool.Pool
}

// NewAvatarRepository creates a new avatar repository
func NewAvatarRepository(db *pgxpool.Pool) *AvatarRepository {
	return &AvatarRepository{db: db}
}

// GetByUserID retrieves a user's avatar. Returns (nil, nil) when the user
// has not created one; a missing avatar is not an error.
func (r *AvatarRepository) GetByUserID(ctx context.Context, userID string) (*models.Avatar, error) {
	query := `
		SELECT id, user_id, avatar_data, created_at, updated_at
		FROM avatars
		WHERE user_id = $1
	`
	var a models.Avatar
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&a.ID, &a.UserID, &a.Data, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}
	return &a, nil
}

// Upsert creates the user's avatar row or replaces its avatar_data
func (r *AvatarRepository) Upsert(ctx context.Context, id, userID string, data models.AvatarData, now time.Time) error {
	query := `
		INSERT INTO avatars (id, user_id, avatar_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET avatar_data = EXCLUDED.avatar_data, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query, id, userID, data, now)
	if err != nil {
		return fmt.Errorf("failed to upsert avatar: %w", err)
	}
	return nil
}
