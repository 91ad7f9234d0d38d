package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"lovespace-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// statusForError maps service errors to HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidOrExpiredCode),
		errors.Is(err, services.ErrPartnerProfileNotFound),
		errors.Is(err, services.ErrCoupleRequired),
		errors.Is(err, services.ErrMemoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSelfJoinForbidden),
		errors.Is(err, services.ErrBonusAlreadyClaimed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
