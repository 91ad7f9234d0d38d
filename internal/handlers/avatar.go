package handlers

import (
	"encoding/json"
	"net/http"

	"lovespace-backend/internal/middleware"
	"lovespace-backend/internal/models"
	"lovespace-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AvatarHandler handles avatar HTTP requests
type AvatarHandler struct {
	avatarService *services.AvatarService
	hub           *services.StateHub
}

// NewAvatarHandler creates a new avatar handler
func NewAvatarHandler(avatarService *services.AvatarService, hub *services.StateHub) *AvatarHandler {
	return &AvatarHandler{avatarService: avatarService, hub: hub}
}

// GetMyAvatar handles GET /api/v1/avatars/me
func (h *AvatarHandler) GetMyAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	avatar, err := h.avatarService.GetMyAvatar(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get avatar")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, avatar)
}

// UpdateAvatarRequest represents the request body for updating an avatar
type UpdateAvatarRequest struct {
	AvatarData models.AvatarData `json:"avatar_data"`
}

// UpdateAvatar handles PUT /api/v1/avatars/me
func (h *AvatarHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req UpdateAvatarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.hub.UpdateAvatar(ctx, userID, req.AvatarData); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update avatar")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	avatar, err := h.avatarService.GetMyAvatar(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, avatar)
}
