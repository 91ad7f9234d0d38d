package services

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/google/uuid"
)

const (
	startingHearts   = 100
	dailyBonusHearts = 25
)

// CurrencyService handles the hearts balance and the daily bonus.
type CurrencyService struct {
	currency CurrencyStore
	clock    func() time.Time
	newID    func() string
}

// NewCurrencyService creates a new currency service
func NewCurrencyService(currency CurrencyStore) *CurrencyService {
	return &CurrencyService{
		currency: currency,
		clock:    time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// GetBalance returns the caller's currency row, creating it with the
// starting balance on first access.
func (s *CurrencyService) GetBalance(ctx context.Context, callerID string) (*models.UserCurrency, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}
	return s.ensureRow(ctx, callerID)
}

// ClaimDailyBonus credits the daily bonus once per UTC day. The claim-date
// check belongs to the store's conditional write, so two devices claiming
// at once credit a single bonus.
func (s *CurrencyService) ClaimDailyBonus(ctx context.Context, callerID string) (*models.UserCurrency, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}
	if _, err := s.ensureRow(ctx, callerID); err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	updated, err := s.currency.ClaimDailyBonus(ctx, callerID, dailyBonusHearts, day, now)
	if err != nil {
		return nil, fmt.Errorf("failed to claim daily bonus: %w", err)
	}
	if updated == nil {
		return nil, ErrBonusAlreadyClaimed
	}
	return updated, nil
}

func (s *CurrencyService) ensureRow(ctx context.Context, userID string) (*models.UserCurrency, error) {
	row, err := s.currency.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	if row != nil {
		return row, nil
	}

	now := s.clock().UTC()
	row = &models.UserCurrency{
		ID:        s.newID(),
		UserID:    userID,
		Hearts:    startingHearts,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.currency.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to create currency row: %w", err)
	}
	return row, nil
}
