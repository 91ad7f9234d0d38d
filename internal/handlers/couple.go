package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"lovespace-backend/internal/middleware"
	"lovespace-backend/internal/models"
	"lovespace-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// CoupleHandler handles pairing-related HTTP requests
type CoupleHandler struct {
	coupleService *services.CoupleService
	hub           *services.StateHub
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(coupleService *services.CoupleService, hub *services.StateHub) *CoupleHandler {
	return &CoupleHandler{
		coupleService: coupleService,
		hub:           hub,
	}
}

// InvitationResponse carries the couple plus the invite code to share
type InvitationResponse struct {
	Couple     *models.Couple `json:"couple"`
	InviteCode string         `json:"invite_code"`
}

// CreateInvitation handles POST /api/v1/couples/invitations
func (h *CoupleHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	// Through the hub so a connected caller's own socket reflects the
	// operation in flight.
	couple, err := h.hub.CreateInvitation(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create invitation")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Str("status", string(couple.Status)).
		Msg("Invitation created")

	respondJSON(w, http.StatusOK, InvitationResponse{
		Couple:     couple,
		InviteCode: couple.InviteCode,
	})
}

// JoinCoupleRequest represents the request body for joining a couple
type JoinCoupleRequest struct {
	InviteCode string `json:"invite_code"`
}

// JoinCouple handles POST /api/v1/couples/join
func (h *CoupleHandler) JoinCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req JoinCoupleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.InviteCode == "" {
		respondError(w, "invite_code is required", http.StatusBadRequest)
		return
	}

	couple, err := h.hub.JoinCouple(ctx, userID, req.InviteCode)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Msg("Failed to join couple")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("couple_id", couple.ID).
		Msg("Couple joined")

	// The inviter's connected device learns immediately instead of waiting
	// for its next poll. Background context: the refresh must not die with
	// this request.
	go h.hub.Refresh(context.Background(), couple.User1ID)

	respondJSON(w, http.StatusOK, couple)
}

// GetCurrentCouple handles GET /api/v1/couples/current. "No couple" is a
// valid empty result: a 200 with a null body, not an error.
func (h *CoupleHandler) GetCurrentCouple(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.coupleService.GetCurrentCouple(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get current couple")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, couple)
}

// GetPartner handles GET /api/v1/couples/partner
func (h *CoupleHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	couple, err := h.coupleService.GetCurrentCouple(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	if couple == nil || couple.Status != models.CoupleStatusActive {
		respondError(w, services.ErrCoupleRequired.Error(), http.StatusNotFound)
		return
	}

	partner, err := h.coupleService.GetPartnerInfo(ctx, userID, couple)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get partner info")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, partner)
}

// GetPet handles GET /api/v1/pets/current
func (h *CoupleHandler) GetPet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	pet, err := h.coupleService.GetPet(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, pet)
}

// GetSpace handles GET /api/v1/spaces/current
func (h *CoupleHandler) GetSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	space, err := h.coupleService.GetSpace(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, space)
}
