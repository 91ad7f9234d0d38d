package services

import "errors"

// Pairing and resource errors surfaced to handlers. Anything else coming out
// of a service is a wrapped backend failure.
var (
	// ErrAuthRequired is returned when the caller's identity is unknown.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidOrExpiredCode is returned when an invite code matches no
	// pending couple. A consumed code and a code that never existed are
	// deliberately indistinguishable to the caller.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired invite code")

	// ErrSelfJoinForbidden is returned when the inviter redeems their own code.
	ErrSelfJoinForbidden = errors.New("cannot join with your own invite code")

	// ErrPartnerProfileNotFound is returned when the partner's profile row
	// is missing. A missing avatar is tolerated; a missing profile is not.
	ErrPartnerProfileNotFound = errors.New("partner profile not found")

	// ErrCoupleRequired is returned by couple-scoped operations when the
	// caller is not in a couple.
	ErrCoupleRequired = errors.New("user is not in a couple")

	// ErrMemoryNotFound is returned when a memory id does not resolve
	// within the caller's couple.
	ErrMemoryNotFound = errors.New("memory not found")

	// ErrBonusAlreadyClaimed is returned when the daily bonus was already
	// claimed for the current day.
	ErrBonusAlreadyClaimed = errors.New("daily bonus already claimed")
)
