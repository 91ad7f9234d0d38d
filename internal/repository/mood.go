package repository

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MoodRepository handles database operations for mood entries
type MoodRepository struct {
	db *pgxpool.Pool
}

// NewMoodRepository creates a new mood repository
func NewMoodRepository(db *pgxpool.Pool) *MoodRepository {
	return &MoodRepository{db: db}
}

// Upsert records the user's mood for the entry date, replacing any earlier
// entry for the same day.
func (r *MoodRepository) Upsert(ctx context.Context, entry *models.MoodEntry) error {
	query := `
		INSERT INTO mood_entries (id, user_id, couple_id, mood, note, entry_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, entry_date) DO UPDATE
		SET mood = EXCLUDED.mood, note = EXCLUDED.note
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.UserID, entry.CoupleID, entry.Mood,
		entry.Note, entry.EntryDate, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert mood entry: %w", err)
	}
	return nil
}

// ListByCoupleSince retrieves both partners' mood entries on or after the
// given date, newest first.
func (r *MoodRepository) ListByCoupleSince(ctx context.Context, coupleID string, since time.Time) ([]*models.MoodEntry, error) {
	query := `
		SELECT id, user_id, couple_id, mood, note, entry_date, created_at
		FROM mood_entries
		WHERE couple_id = $1 AND entry_date >= $2
		ORDER BY entry_date DESC, created_at DESC
	`
	rows, err := r.db.Query(ctx, query, coupleID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.MoodEntry
	for rows.Next() {
		var e models.MoodEntry
		err := rows.Scan(&e.ID, &e.UserID, &e.CoupleID, &e.Mood, &e.Note, &e.EntryDate, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mood entries: %w", err)
	}
	return entries, nil
}
