package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/praxisllmlab/dongchaLLM/internal/model"
)

// NewAuthMiddleware validates the bearer master key on protected
// routes. When no master key is configured the middleware is a
// pass-through, matching the nil-safe middleware convention used
// throughout the service.
func NewAuthMiddleware(masterKey string) func(http.Handler) http.Handler {
	if masterKey == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	masterKeyHash := hashToken(masterKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				authError(w, "missing API key", http.StatusUnauthorized)
				return
			}
			// Constant-time via hash comparison.
			if hashToken(token) != masterKeyHash {
				authError(w, "invalid API key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return token
	}
	return r.Header.Get("x-api-key")
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func authError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: model.ErrorDetail{
			Message: msg,
			Type:    "authentication_error",
		},
	})
}
