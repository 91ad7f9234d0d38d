package repository

import (
	"context"
	"fmt"

	"lovespace-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PetRepository handles database operations for couple pets
type PetRepository struct {
	db *pgxpool.Pool
}

// NewPetRepository creates a new pet repository
func NewPetRepository(db *pgxpool.Pool) *PetRepository {
	return &PetRepository{db: db}
}

// Create creates a new pet
func (r *PetRepository) Create(ctx context.Context, pet *models.Pet) error {
	query := `
		INSERT INTO pets (id, couple_id, name, type, level, happiness, hunger, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		pet.ID, pet.CoupleID, pet.Name, pet.Type, pet.Level,
		pet.Happiness, pet.Hunger, pet.Items, pet.CreatedAt, pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

// GetByCoupleID retrieves the couple's pet. Returns (nil, nil) when none
// has been provisioned.
func (r *PetRepository) GetByCoupleID(ctx context.Context, coupleID string) (*models.Pet, error) {
	query := `
		SELECT id, couple_id, name, type, level, happiness, hunger, items, created_at, updated_at
		FROM pets
		WHERE couple_id = $1
	`
	var p models.Pet
	err := r.db.QueryRow(ctx, query, coupleID).Scan(
		&p.ID, &p.CoupleID, &p.Name, &p.Type, &p.Level,
		&p.Happiness, &p.Hunger, &p.Items, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return &p, nil
}

// SpaceRepository handles database operations for virtual spaces
type SpaceRepository struct {
	db *pgxpool.Pool
}

// NewSpaceRepository creates a new space repository
func NewSpaceRepository(db *pgxpool.Pool) *SpaceRepository {
	return &SpaceRepository{db: db}
}

// Create creates a new virtual space
func (r *SpaceRepository) Create(ctx context.Context, space *models.VirtualSpace) error {
	query := `
		INSERT INTO spaces (id, couple_id, theme, furniture, decorations, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		space.ID, space.CoupleID, space.Theme, space.Furniture,
		space.Decorations, space.CreatedAt, space.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create space: %w", err)
	}
	return nil
}

// GetByCoupleID retrieves the couple's virtual space. Returns (nil, nil)
// when none has been provisioned.
func (r *SpaceRepository) GetByCoupleID(ctx context.Context, coupleID string) (*models.VirtualSpace, error) {
	query := `
		SELECT id, couple_id, theme, furniture, decorations, created_at, updated_at
		FROM spaces
		WHERE couple_id = $1
	`
	var s models.VirtualSpace
	err := r.db.QueryRow(ctx, query, coupleID).Scan(
		&s.ID, &s.CoupleID, &s.Theme, &s.Furniture,
		&s.Decorations, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	return &s, nil
}
