package repository

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memoryColumns = `id, couple_id, title, description, type, completed, completed_date, photos, created_by, created_at, updated_at`

// MemoryRepository handles database operations for couple memories
type MemoryRepository struct {
	db *pgxpool.Pool
}

// NewMemoryRepository creates a new memory repository
func NewMemoryRepository(db *pgxpool.Pool) *MemoryRepository {
	return &MemoryRepository{db: db}
}

func scanMemory(row pgx.Row) (*models.Memory, error) {
	var m models.Memory
	err := row.Scan(
		&m.ID, &m.CoupleID, &m.Title, &m.Description, &m.Type, &m.Completed,
		&m.CompletedDate, &m.Photos, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create creates a new memory
func (r *MemoryRepository) Create(ctx context.Context, memory *models.Memory) error {
	query := `
		INSERT INTO memories (id, couple_id, title, description, type, completed, completed_date, photos, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		memory.ID, memory.CoupleID, memory.Title, memory.Description, memory.Type,
		memory.Completed, memory.CompletedDate, memory.Photos, memory.CreatedBy,
		memory.CreatedAt, memory.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create memory: %w", err)
	}
	return nil
}

// GetByID retrieves a memory by id. Returns (nil, nil) when it does not exist.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Memory, error) {
	query := `SELECT ` + memoryColumns + ` FROM memories WHERE id = $1`
	memory, err := scanMemory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}
	return memory, nil
}

// ListByCoupleID retrieves all memories for a couple, newest first
func (r *MemoryRepository) ListByCoupleID(ctx context.Context, coupleID string) ([]*models.Memory, error) {
	query := `
		SELECT ` + memoryColumns + `
		FROM memories
		WHERE couple_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, coupleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories: %w", err)
	}
	defer rows.Close()

	var memories []*models.Memory
	for rows.Next() {
		memory, err := scanMemory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		memories = append(memories, memory)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memories: %w", err)
	}
	return memories, nil
}

// MarkCompleted marks a memory completed with the given date
func (r *MemoryRepository) MarkCompleted(ctx context.Context, id string, completedDate, now time.Time) error {
	query := `
		UPDATE memories
		SET completed = true, completed_date = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, id, completedDate, now)
	if err != nil {
		return fmt.Errorf("failed to complete memory: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("memory not found")
	}
	return nil
}

// AddPhoto appends a photo URL to a memory
func (r *MemoryRepository) AddPhoto(ctx context.Context, id, photoURL string, now time.Time) error {
	query := `
		UPDATE memories
		SET photos = array_append(photos, $2), updated_at = $3
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, id, photoURL, now)
	if err != nil {
		return fmt.Errorf("failed to add memory photo: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("memory not found")
	}
	return nil
}
