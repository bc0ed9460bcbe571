package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/storefront/internal/models"
	"github.com/atinyakov/storefront/internal/service"
)

// AuthService defines the authentication operations required by the
// HTTP handlers.
type AuthService interface {
	// Login returns service.ErrUnknownUser or service.ErrWrongPassword for
	// bad credentials.
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
}

// AuthHandler handles HTTP requests for login.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Logger      *zap.Logger
}

// Login handles POST /auth/login. It expects a JSON body with non-empty
// "username" and "password" and answers 201 with the session token and
// balance, or 400 with a message the shopper can read.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrUnknownUser):
		writeError(w, http.StatusBadRequest, "Username does not exist")
		return
	case errors.Is(err, service.ErrWrongPassword):
		writeError(w, http.StatusBadRequest, "Password is incorrect")
		return
	case err != nil:
		h.Logger.Error("login failed", zap.String("username", req.Username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}
