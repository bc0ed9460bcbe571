// Package middleware provides HTTP middlewares for authentication, logging
// and metrics.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/storefront/internal/service"
)

type ctxKey string

const userKey ctxKey = "user"

// Messages written with 401 responses.
const (
	MsgTokenMissing = "Protected route, Oauth2 Bearer token not found"
	MsgTokenInvalid = "Please authenticate"
)

// MsgInternal is written when the token cannot be checked at all.
const MsgInternal = "Something went wrong. Check the backend console for more details"

// Authenticator resolves a bearer token to a user id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// TokenAuth is a middleware that enforces bearer token authentication.
//
// It reads the token from the Authorization header and resolves it through
// auth. An unknown or expired token answers 401, any other lookup failure 500.
// On success the user id is stored in the request context so handlers
// can retrieve it with GetUserIDFromContext.
func TokenAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, MsgTokenMissing)
				return
			}
			userID, err := auth.Authenticate(r.Context(), token)
			switch {
			case errors.Is(err, service.ErrUnauthenticated):
				unauthorized(w, MsgTokenInvalid)
				return
			case err != nil:
				writeJSON(w, http.StatusInternalServerError, MsgInternal)
				return
			case userID == "":
				unauthorized(w, MsgTokenInvalid)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusUnauthorized, msg)
}

func writeJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}

// GetUserIDFromContext extracts the authenticated user ID from the request
// context. Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
