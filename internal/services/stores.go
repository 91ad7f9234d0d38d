package services

import (
	"context"
	"time"

	"lovespace-backend/internal/models"
)

// Store interfaces implemented by the pgx repositories. Lookups that may
// legitimately find nothing return (nil, nil); a non-nil error always means
// the backend failed.

// CoupleStore persists couples.
type CoupleStore interface {
	Create(ctx context.Context, couple *models.Couple) error
	GetCurrentByUser(ctx context.Context, userID string) (*models.Couple, error)
	GetPendingByCode(ctx context.Context, code string) (*models.Couple, error)
	// Activate performs the pending -> active transition as a single
	// conditional write. Returns (nil, nil) when the couple was no longer
	// pending, which is how a lost redemption race shows up.
	Activate(ctx context.Context, coupleID, user2ID string, relationshipStart, now time.Time) (*models.Couple, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
}

// ProfileStore persists user profiles.
type ProfileStore interface {
	Upsert(ctx context.Context, profile *models.UserProfile) error
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
}

// AvatarStore persists avatars.
type AvatarStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Avatar, error)
	Upsert(ctx context.Context, id, userID string, data models.AvatarData, now time.Time) error
}

// PetStore persists couple pets.
type PetStore interface {
	Create(ctx context.Context, pet *models.Pet) error
	GetByCoupleID(ctx context.Context, coupleID string) (*models.Pet, error)
}

// SpaceStore persists virtual spaces.
type SpaceStore interface {
	Create(ctx context.Context, space *models.VirtualSpace) error
	GetByCoupleID(ctx context.Context, coupleID string) (*models.VirtualSpace, error)
}

// MemoryStore persists couple memories.
type MemoryStore interface {
	Create(ctx context.Context, memory *models.Memory) error
	GetByID(ctx context.Context, id string) (*models.Memory, error)
	ListByCoupleID(ctx context.Context, coupleID string) ([]*models.Memory, error)
	MarkCompleted(ctx context.Context, id string, completedDate, now time.Time) error
	AddPhoto(ctx context.Context, id, photoURL string, now time.Time) error
}

// CurrencyStore persists user currency rows.
type CurrencyStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserCurrency, error)
	Create(ctx context.Context, currency *models.UserCurrency) error
	ClaimDailyBonus(ctx context.Context, userID string, bonus int, day, now time.Time) (*models.UserCurrency, error)
}

// MoodStore persists mood entries.
type MoodStore interface {
	Upsert(ctx context.Context, entry *models.MoodEntry) error
	ListByCoupleSince(ctx context.Context, coupleID string, since time.Time) ([]*models.MoodEntry, error)
}

// PartnerNotifier delivers a push notification to the inviter's device when
// the partner joins. Implementations must be safe to skip (nil notifier).
type PartnerNotifier interface {
	PartnerJoined(ctx context.Context, deviceToken string) error
}
