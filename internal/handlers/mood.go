package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"lovespace-backend/internal/middleware"
	"lovespace-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// MoodHandler handles mood HTTP requests
type MoodHandler struct {
	moodService *services.MoodService
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moodService *services.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

// RecordMoodRequest represents the request body for recording a mood
type RecordMoodRequest struct {
	Mood string  `json:"mood"`
	Note *string `json:"note"`
}

// RecordMood handles POST /api/v1/moods
func (h *MoodHandler) RecordMood(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req RecordMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Mood == "" {
		respondError(w, "mood is required", http.StatusBadRequest)
		return
	}

	entry, err := h.moodService.RecordMood(ctx, userID, req.Mood, req.Note)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to record mood")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// ListMoods handles GET /api/v1/moods
func (h *MoodHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		if parsed, err := strconv.Atoi(daysStr); err == nil {
			days = parsed
		}
	}

	entries, err := h.moodService.ListMoods(ctx, userID, days)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list moods")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"moods": entries,
		"total": len(entries),
	})
}
