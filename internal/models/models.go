package models

import "time"

// CoupleStatus is the lifecycle state of a couple. Transitions are forward
// only: pending -> active, pending/active -> ended.
type CoupleStatus string

const (
	CoupleStatusPending CoupleStatus = "pending"
	CoupleStatusActive  CoupleStatus = "active"
	CoupleStatusEnded   CoupleStatus = "ended"
)

// Couple represents a pairing between two user accounts. While the couple is
// pending, User1ID and User2ID both hold the inviter's id.
type Couple struct {
	ID                string       `json:"id"`
	User1ID           string       `json:"user1_id"`
	User2ID           string       `json:"user2_id"`
	InviteCode        string       `json:"invite_code"`
	Status            CoupleStatus `json:"status"`
	RelationshipStart *time.Time   `json:"relationship_start"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// UserProfile represents a user's profile record. The identity provider owns
// authentication; this row only mirrors id/email plus app-level fields.
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	PushToken *string   `json:"push_token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvatarData is the user-customizable avatar blob.
type AvatarData struct {
	Hair        string   `json:"hair"`
	Clothes     string   `json:"clothes"`
	Accessories []string `json:"accessories"`
}

// Avatar is a one-per-user customization record.
type Avatar struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Data      AvatarData `json:"avatar_data"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PartnerInfo is a read-only projection of the other side of a couple.
type PartnerInfo struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Avatar   *Avatar `json:"avatar,omitempty"`
}

// Pet is the couple's shared virtual pet, provisioned once at pairing.
type Pet struct {
	ID        string    `json:"id"`
	CoupleID  string    `json:"couple_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Level     int       `json:"level"`
	Happiness int       `json:"happiness"`
	Hunger    int       `json:"hunger"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VirtualSpace is the couple's shared room, provisioned once at pairing.
type VirtualSpace struct {
	ID          string    `json:"id"`
	CoupleID    string    `json:"couple_id"`
	Theme       string    `json:"theme"`
	Furniture   []string  `json:"furniture"`
	Decorations []string  `json:"decorations"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserCurrency tracks a user's hearts balance and daily bonus claim.
type UserCurrency struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Hearts         int        `json:"hearts"`
	LastDailyBonus *time.Time `json:"last_daily_bonus"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// MemoryType classifies a couple memory.
type MemoryType string

const (
	MemoryTypeWishlist  MemoryType = "wishlist"
	MemoryTypeCompleted MemoryType = "completed"
	MemoryTypeMilestone MemoryType = "milestone"
)

// Memory is a shared wishlist item or milestone belonging to a couple.
type Memory struct {
	ID            string     `json:"id"`
	CoupleID      string     `json:"couple_id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	Type          MemoryType `json:"type"`
	Completed     bool       `json:"completed"`
	CompletedDate *time.Time `json:"completed_date"`
	Photos        []string   `json:"photos"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// MoodEntry is one user's mood for a given day. At most one entry per user
// per entry date.
type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CoupleID  string    `json:"couple_id"`
	Mood      string    `json:"mood"`
	Note      *string   `json:"note"`
	EntryDate time.Time `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidMood reports whether mood is one of the accepted values.
func ValidMood(mood string) bool {
	switch mood {
	case "happy", "sad", "tired", "excited", "stressed", "calm":
		return true
	}
	return false
}
