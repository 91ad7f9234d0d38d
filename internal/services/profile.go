package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lovespace-backend/internal/models"
)

// ProfileService handles user profile upkeep. The identity provider owns
// authentication; profiles only mirror the account plus app-level fields.
type ProfileService struct {
	profiles ProfileStore
	clock    func() time.Time
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		clock:    time.Now,
	}
}

// UpsertProfile creates or refreshes the caller's profile row.
func (s *ProfileService) UpsertProfile(ctx context.Context, callerID, username, email string) (*models.UserProfile, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = "Parceiro"
	}

	now := s.clock().UTC()
	profile := &models.UserProfile{
		ID:        callerID,
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return profile, nil
}

// GetProfile returns the caller's profile, or nil when none exists.
func (s *ProfileService) GetProfile(ctx context.Context, callerID string) (*models.UserProfile, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}
	profile, err := s.profiles.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpdatePushToken stores or clears the caller's device push token.
func (s *ProfileService) UpdatePushToken(ctx context.Context, callerID string, pushToken *string) error {
	if callerID == "" {
		return ErrAuthRequired
	}
	if err := s.profiles.UpdatePushToken(ctx, callerID, pushToken); err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}
