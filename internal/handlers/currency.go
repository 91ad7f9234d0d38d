package handlers

import (
	"net/http"

	"lovespace-backend/internal/middleware"
	"lovespace-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// CurrencyHandler handles currency HTTP requests
type CurrencyHandler struct {
	currencyService *services.CurrencyService
}

// NewCurrencyHandler creates a new currency handler
func NewCurrencyHandler(currencyService *services.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService}
}

// GetBalance handles GET /api/v1/currency
func (h *CurrencyHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	balance, err := h.currencyService.GetBalance(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get balance")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, balance)
}

// ClaimDailyBonus handles POST /api/v1/currency/daily-bonus
func (h *CurrencyHandler) ClaimDailyBonus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	balance, err := h.currencyService.ClaimDailyBonus(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to claim daily bonus")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Int("hearts", balance.Hearts).
		Msg("Daily bonus claimed")

	respondJSON(w, http.StatusOK, balance)
}
