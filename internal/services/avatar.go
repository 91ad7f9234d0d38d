package services

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/google/uuid"
)

// AvatarService handles avatar reads and updates
type AvatarService struct {
	avatars AvatarStore
	clock   func() time.Time
	newID   func() string
}

// NewAvatarService creates a new avatar service
func NewAvatarService(avatars AvatarStore) *AvatarService {
	return &AvatarService{
		avatars: avatars,
		clock:   time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// GetMyAvatar returns the caller's avatar, or nil when none exists.
func (s *AvatarService) GetMyAvatar(ctx context.Context, callerID string) (*models.Avatar, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}
	avatar, err := s.avatars.GetByUserID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get avatar: %w", err)
	}
	return avatar, nil
}

// UpdateAvatar creates or replaces the caller's avatar customization.
func (s *AvatarService) UpdateAvatar(ctx context.Context, callerID string, data models.AvatarData) error {
	if callerID == "" {
		return ErrAuthRequired
	}
	if data.Accessories == nil {
		data.Accessories = []string{}
	}
	if err := s.avatars.Upsert(ctx, s.newID(), callerID, data, s.clock().UTC()); err != nil {
		return fmt.Errorf("failed to update avatar: %w", err)
	}
	return nil
}
