package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lovespace-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	codeMaxAttempts = 10

	defaultPetName      = "Amigo"
	defaultPetType      = "dog"
	defaultPetLevel     = 1
	defaultPetHappiness = 100
	defaultPetHunger    = 50
	defaultSpaceTheme   = "cozy"
)

// CoupleService owns the couple pairing lifecycle: invitation creation,
// invite-code redemption, partner resolution and one-time provisioning of
// the couple's shared pet and space.
type CoupleService struct {
	couples  CoupleStore
	profiles ProfileStore
	avatars  AvatarStore
	pets     PetStore
	spaces   SpaceStore
	notifier PartnerNotifier

	clock   func() time.Time
	newID   func() string
	newCode func() string
}

// NewCoupleService creates a new couple service. notifier may be nil when
// push is not configured.
func NewCoupleService(
	couples CoupleStore,
	profiles ProfileStore,
	avatars AvatarStore,
	pets PetStore,
	spaces SpaceStore,
	notifier PartnerNotifier,
) *CoupleService {
	return &CoupleService{
		couples:  couples,
		profiles: profiles,
		avatars:  avatars,
		pets:     pets,
		spaces:   spaces,
		notifier: notifier,
		clock:    time.Now,
		newID:    func() string { return uuid.New().String() },
		newCode:  generateInviteCode,
	}
}

// CreateInvitation returns the caller's existing non-ended couple, or
// creates a fresh pending one with a new invite code. Calling it again
// before the partner joins returns the same couple and code; it never
// creates a duplicate.
func (s *CoupleService) CreateInvitation(ctx context.Context, callerID string) (*models.Couple, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}

	existing, err := s.couples.GetCurrentByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing couple: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	code, err := s.uniqueInviteCode(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	couple := &models.Couple{
		ID:         s.newID(),
		User1ID:    callerID,
		User2ID:    callerID, // placeholder until the partner joins
		InviteCode: code,
		Status:     models.CoupleStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.couples.Create(ctx, couple); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return couple, nil
}

// uniqueInviteCode generates a code not held by any currently pending couple
func (s *CoupleService) uniqueInviteCode(ctx context.Context) (string, error) {
	for i := 0; i < codeMaxAttempts; i++ {
		code := s.newCode()
		inUse, err := s.couples.CodeInUse(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check invite code: %w", err)
		}
		if !inUse {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique invite code after %d attempts", codeMaxAttempts)
}

// JoinCouple redeems an invite code for the caller, transitioning the
// couple to active. Codes are case-insensitive. Exactly one caller can win
// a concurrent redemption; losers see ErrInvalidOrExpiredCode.
func (s *CoupleService) JoinCouple(ctx context.Context, callerID, code string) (*models.Couple, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidOrExpiredCode
	}

	couple, err := s.couples.GetPendingByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite code: %w", err)
	}
	if couple == nil {
		return nil, ErrInvalidOrExpiredCode
	}
	if couple.User1ID == callerID {
		return nil, ErrSelfJoinForbidden
	}

	now := s.clock().UTC()
	// Relationship start is the join date, not the invitation date.
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	updated, err := s.couples.Activate(ctx, couple.ID, callerID, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to join couple: %w", err)
	}
	if updated == nil {
		// Another caller consumed the code between our read and the
		// conditional write.
		return nil, ErrInvalidOrExpiredCode
	}

	// Provisioning and push are best effort: the pairing is committed and
	// is never rolled back on their account.
	s.provisionSharedResources(ctx, updated.ID)
	s.notifyInviter(ctx, updated.User1ID)

	return updated, nil
}

// provisionSharedResources creates the couple's default pet and space.
// Failures are logged, not returned; see JoinCouple.
func (s *CoupleService) provisionSharedResources(ctx context.Context, coupleID string) {
	now := s.clock().UTC()

	pet := &models.Pet{
		ID:        s.newID(),
		CoupleID:  coupleID,
		Name:      defaultPetName,
		Type:      defaultPetType,
		Level:     defaultPetLevel,
		Happiness: defaultPetHappiness,
		Hunger:    defaultPetHunger,
		Items:     []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.pets.Create(ctx, pet); err != nil {
		log.Error().Err(err).Str("couple_id", coupleID).Msg("Failed to provision pet")
	}

	space := &models.VirtualSpace{
		ID:          s.newID(),
		CoupleID:    coupleID,
		Theme:       defaultSpaceTheme,
		Furniture:   []string{},
		Decorations: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.spaces.Create(ctx, space); err != nil {
		log.Error().Err(err).Str("couple_id", coupleID).Msg("Failed to provision space")
	}
}

// notifyInviter pushes a "partner joined" notification to the inviter's
// device, when push is configured and a token is on file.
func (s *CoupleService) notifyInviter(ctx context.Context, inviterID string) {
	if s.notifier == nil {
		return
	}
	profile, err := s.profiles.GetByID(ctx, inviterID)
	if err != nil {
		log.Error().Err(err).Str("user_id", inviterID).Msg("Failed to load inviter profile for push")
		return
	}
	if profile == nil || profile.PushToken == nil {
		return
	}
	if err := s.notifier.PartnerJoined(ctx, *profile.PushToken); err != nil {
		log.Error().Err(err).Str("user_id", inviterID).Msg("Failed to push partner-joined notification")
	}
}

// GetCurrentCouple returns the caller's non-ended couple, or nil when the
// caller has none. "No couple" is a valid empty result, not an error.
func (s *CoupleService) GetCurrentCouple(ctx context.Context, callerID string) (*models.Couple, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}
	couple, err := s.couples.GetCurrentByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current couple: %w", err)
	}
	return couple, nil
}

// GetPartnerInfo resolves the other side of the couple relative to the
// caller and returns their profile merged with their avatar. The couple is
// expected to be active; on a pending couple the partner slot still holds
// the inviter's placeholder.
func (s *CoupleService) GetPartnerInfo(ctx context.Context, callerID string, couple *models.Couple) (*models.PartnerInfo, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}
	if couple == nil {
		return nil, ErrCoupleRequired
	}

	partnerID := couple.User1ID
	if couple.User1ID == callerID {
		partnerID = couple.User2ID
	}

	profile, err := s.profiles.GetByID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get partner profile: %w", err)
	}
	if profile == nil {
		return nil, ErrPartnerProfileNotFound
	}

	avatar, err := s.avatars.GetByUserID(ctx, partnerID)
	if err != nil {
		// Tolerated like a missing avatar; the projection is still useful.
		log.Error().Err(err).Str("user_id", partnerID).Msg("Failed to load partner avatar")
		avatar = nil
	}

	return &models.PartnerInfo{
		ID:       profile.ID,
		Username: profile.Username,
		Email:    profile.Email,
		Avatar:   avatar,
	}, nil
}

// GetPet returns the caller's couple's pet.
func (s *CoupleService) GetPet(ctx context.Context, callerID string) (*models.Pet, error) {
	couple, err := s.requireCouple(ctx, callerID)
	if err != nil {
		return nil, err
	}
	pet, err := s.pets.GetByCoupleID(ctx, couple.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return pet, nil
}

// GetSpace returns the caller's couple's virtual space.
func (s *CoupleService) GetSpace(ctx context.Context, callerID string) (*models.VirtualSpace, error) {
	couple, err := s.requireCouple(ctx, callerID)
	if err != nil {
		return nil, err
	}
	space, err := s.spaces.GetByCoupleID(ctx, couple.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get space: %w", err)
	}
	return space, nil
}

func (s *CoupleService) requireCouple(ctx context.Context, callerID string) (*models.Couple, error) {
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
