package repository

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CurrencyRepository handles database operations for user currency
type CurrencyRepository struct {
	db *pgxpool.Pool
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *pgxpool.Pool) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

// GetByUserID retrieves a user's currency row. Returns (nil, nil) when the
// row has not been created yet.
func (r *CurrencyRepository) GetByUserID(ctx context.Context, userID string) (*models.UserCurrency, error) {
	query := `
		SELECT id, user_id, hearts, last_daily_bonus, created_at, updated_at
		FROM user_currency
		WHERE user_id = $1
	`
	var c models.UserCurrency
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.Hearts, &c.LastDailyBonus, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return &c, nil
}

// Create creates a new currency row
func (r *CurrencyRepository) Create(ctx context.Context, currency *models.UserCurrency) error {
	query := `
		INSERT INTO user_currency (id, user_id, hearts, last_daily_bonus, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		currency.ID, currency.UserID, currency.Hearts, currency.LastDailyBonus,
		currency.CreatedAt, currency.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create currency: %w", err)
	}
	return nil
}

// ClaimDailyBonus adds the bonus and stamps the claim date, conditioned on
// the stored claim date still being older than the given day. The condition
// lives in the write so two devices claiming at once credit only one bonus.
// Returns (nil, nil) when the bonus was already claimed for the day.
func (r *CurrencyRepository) ClaimDailyBonus(ctx context.Context, userID string, bonus int, day, now time.Time) (*models.UserCurrency, error) {
	query := `
		UPDATE user_currency
		SET hearts = hearts + $2, last_daily_bonus = $3, updated_at = $4
		WHERE user_id = $1 AND (last_daily_bonus IS NULL OR last_daily_bonus < $3)
		RETURNING id, user_id, hearts, last_daily_bonus, created_at, updated_at
	`
	var c models.UserCurrency
	err := r.db.QueryRow(ctx, query, userID, bonus, day, now).Scan(
		&c.ID, &c.UserID, &c.Hearts, &c.LastDailyBonus, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to claim daily bonus: %w", err)
	}
	return &c, nil
}
