package services

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/google/uuid"
)

const defaultMoodDays = 7

// MoodService records and lists daily mood entries within a couple.
type MoodService struct {
	moods   MoodStore
	couples CoupleStore
	clock   func() time.Time
	newID   func() string
}

// NewMoodService creates a new mood service
func NewMoodService(moods MoodStore, couples CoupleStore) *MoodService {
	return &MoodService{
		moods:   moods,
		couples: couples,
		clock:   time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// RecordMood upserts the caller's mood for today. A second entry on the
// same day replaces the first.
func (s *MoodService) RecordMood(ctx context.Context, callerID, mood string, note *string) (*models.MoodEntry, error) {
	couple, err := s.requireCouple(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !models.ValidMood(mood) {
		return nil, fmt.Errorf("invalid mood %q", mood)
	}

	now := s.clock().UTC()
	entry := &models.MoodEntry{
		ID:        s.newID(),
		UserID:    callerID,
		CoupleID:  couple.ID,
		Mood:      mood,
		Note:      note,
		EntryDate: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
	}
	if err := s.moods.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record mood: %w", err)
	}
	return entry, nil
}

// ListMoods returns both partners' moods for the last `days` days.
func (s *MoodService) ListMoods(ctx context.Context, callerID string, days int) ([]*models.MoodEntry, error) {
	couple, err := s.requireCouple(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultMoodDays
	}

	now := s.clock().UTC()
	since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
	return s.moods.ListByCoupleSince(ctx, couple.ID, since)
}

func (s *MoodService) requireCouple(ctx context.Context, callerID string) (*models.Couple, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}
	couple, err := s.couples.GetCurrentByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current couple: %w", err)
	}
	if couple == nil {
		return nil, ErrCoupleRequired
	}
	return couple, nil
}
