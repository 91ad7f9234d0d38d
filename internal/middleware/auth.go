package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"lovespace-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey struct{}

var userIDKey contextKey

// AuthMiddleware authenticates requests with a Bearer JWT and stores the
// authenticated user id on the request context.
func AuthMiddleware(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				unauthorized(w, "Bearer token required")
				return
			}

			userID, err := authService.ValidateJWT(raw)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected token")
				unauthorized(w, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user id, or "" outside AuthMiddleware.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// ValidateWebSocketToken validates a JWT passed as a WebSocket query
// parameter, where browsers cannot set an Authorization header.
func ValidateWebSocketToken(token string, authService *services.AuthService) (string, error) {
	if token == "" {
		return "", fmt.Errorf("token required")
	}
	return authService.ValidateJWT(token)
}
