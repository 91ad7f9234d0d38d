package repository

import (
	"context"
	"fmt"

	"lovespace-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Upsert inserts the profile or updates username/email on conflict
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	query := `
		INSERT INTO user_profiles (id, username, email, push_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username, email = EXCLUDED.email, updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.Username, profile.Email, profile.PushToken,
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by user id. Returns (nil, nil) when the
// profile does not exist.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	query := `
		SELECT id, username, email, push_token, created_at, updated_at
		FROM user_profiles
		WHERE id = $1
	`
	var p models.UserProfile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Username, &p.Email, &p.PushToken, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// UpdatePushToken updates the push token for a user
func (r *ProfileRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE user_profiles SET push_token = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}
