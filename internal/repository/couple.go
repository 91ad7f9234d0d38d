package repository

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const coupleColumns = `id, user1_id, user2_id, invite_code, status, relationship_start, created_at, updated_at`

// CoupleRepository handles database operations for couples
type CoupleRepository struct {
	db *pgxpool.Pool
}

// NewCoupleRepository creates a new couple repository
func NewCoupleRepository(db *pgxpool.Pool) *CoupleRepository {
	return &CoupleRepository{db: db}
}

func scanCouple(row pgx.Row) (*models.Couple, error) {
	var c models.Couple
	err := row.Scan(
		&c.ID, &c.User1ID, &c.User2ID, &c.InviteCode, &c.Status,
		&c.RelationshipStart, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create creates a new couple
func (r *CoupleRepository) Create(ctx context.Context, couple *models.Couple) error {
	query := `
		INSERT INTO couples (id, user1_id, user2_id, invite_code, status, relationship_start, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		couple.ID, couple.User1ID, couple.User2ID, couple.InviteCode,
		couple.Status, couple.RelationshipStart, couple.CreatedAt, couple.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create couple: %w", err)
	}
	return nil
}

// GetCurrentByUser retrieves the user's most recent non-ended couple, in
// either role. Returns (nil, nil) when the user has none.
func (r *CoupleRepository) GetCurrentByUser(ctx context.Context, userID string) (*models.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE (user1_id = $1 OR user2_id = $1)
		  AND status IN ('pending', 'active')
		ORDER BY created_at DESC
		LIMIT 1
	`
	couple, err := scanCouple(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get couple by user id: %w", err)
	}
	return couple, nil
}

// GetPendingByCode retrieves the pending couple gated by the given invite
// code. The code is matched as stored (canonical uppercase). Returns
// (nil, nil) when no pending couple carries the code.
func (r *CoupleRepository) GetPendingByCode(ctx context.Context, code string) (*models.Couple, error) {
	query := `
		SELECT ` + coupleColumns + `
		FROM couples
		WHERE invite_code = $1 AND status = 'pending'
	`
	couple, err := scanCouple(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get couple by invite code: %w", err)
	}
	return couple, nil
}

// Activate transitions a couple from pending to active in a single
// conditional update. The status check is part of the write, so when two
// users race to redeem the same code only one update finds a pending row.
// Returns (nil, nil) when the couple is no longer pending.
func (r *CoupleRepository) Activate(ctx context.Context, coupleID, user2ID string, relationshipStart, now time.Time) (*models.Couple, error) {
	query := `
		UPDATE couples
		SET user2_id = $2, status = 'active', relationship_start = $3, updated_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + coupleColumns
	couple, err := scanCouple(r.db.QueryRow(ctx, query, coupleID, user2ID, relationshipStart, now))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to activate couple: %w", err)
	}
	return couple, nil
}

// CodeInUse checks whether an invite code is held by a currently pending
// couple.
func (r *CoupleRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM couples WHERE invite_code = $1 AND status = 'pending')`
	var exists bool
	if err := r.db.QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check invite code: %w", err)
	}
	return exists, nil
}
