package handlers

import (
	"encoding/json"
	"net/http"

	"lovespace-backend/internal/middleware"
	"lovespace-backend/internal/models"
	"lovespace-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MemoryHandler handles memory HTTP requests
type MemoryHandler struct {
	memoryService *services.MemoryService
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(memoryService *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{memoryService: memoryService}
}

// ListMemories handles GET /api/v1/memories
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	memories, err := h.memoryService.ListMemories(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list memories")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"memories": memories,
		"total":    len(memories),
	})
}

// CreateMemoryRequest represents the request body for creating a memory
type CreateMemoryRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Type        string  `json:"type"`
}

// CreateMemory handles POST /api/v1/memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateMemoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		respondError(w, "title is required", http.StatusBadRequest)
		return
	}

	memory, err := h.memoryService.CreateMemory(ctx, userID, req.Title, req.Description, models.MemoryType(req.Type))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create memory")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("memory_id", memory.ID).
		Msg("Memory created")

	respondJSON(w, http.StatusOK, memory)
}

// CompleteMemory handles POST /api/v1/memories/{memory_id}/complete
func (h *MemoryHandler) CompleteMemory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	memoryID := chi.URLParam(r, "memory_id")

	if memoryID == "" {
		respondError(w, "memory_id is required", http.StatusBadRequest)
		return
	}

	if err := h.memoryService.CompleteMemory(ctx, userID, memoryID); err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("memory_id", memoryID).
			Msg("Failed to complete memory")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AttachPhotoRequest represents the request body for attaching a photo
type AttachPhotoRequest struct {
	ContentType string `json:"content_type"`
}

// AttachPhoto handles POST /api/v1/memories/{memory_id}/photos
func (h *MemoryHandler) AttachPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	memoryID := chi.URLParam(r, "memory_id")

	if memoryID == "" {
		respondError(w, "memory_id is required", http.StatusBadRequest)
		return
	}

	var req AttachPhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	upload, err := h.memoryService.AttachPhoto(ctx, userID, memoryID, req.ContentType)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("memory_id", memoryID).
			Msg("Failed to generate photo upload URL")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, upload)
}
