// Package auth logs the shopper in and out.
package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/client/session"
	"github.com/atinyakov/storefront/internal/models"
)

const (
	MsgUsernameRequired = "Username is a required field"
	MsgPasswordRequired = "Password is a required field"
	MsgLoggedIn         = "Logged in Successfully"
)

// Backend is the API call Service needs.
type Backend interface {
	Login(ctx context.Context, username, password string) (*models.LoginResponse, error)
}

// Service owns writes to the session store.
type Service struct {
	backend Backend
	store   session.Store
	notify  notify.Notifier
	log     *zap.Logger
}

// NewService constructs a Service. log may be nil.
func NewService(b Backend, store session.Store, n notify.Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{backend: b, store: store, notify: n, log: log}
}

// Login validates the input, authenticates against the backend and persists
// the session. It reports whether the shopper is now logged in. The session is
// left untouched on any failure.
func (s *Service) Login(ctx context.Context, username, password string) bool {
	if username == "" {
		s.notify.Warn(MsgUsernameRequired)
		return false
	}
	if password == "" {
		s.notify.Warn(MsgPasswordRequired)
		return false
	}

	resp, err := s.backend.Login(ctx, username, password)
	if err != nil {
		s.log.Info("login failed", zap.String("username", username), zap.Error(err))
		if msg, ok := api.MessageOf(err); ok && api.StatusOf(err) == http.StatusBadRequest {
			s.notify.Error(msg)
		} else {
			s.notify.Error(notify.MsgLoginUnavailable)
		}
		return false
	}

	balance := resp.Balance
	if err := s.store.Set(models.Session{Token: resp.Token, Username: resp.Username, Balance: &balance}); err != nil {
		s.log.Error("failed to persist session", zap.Error(err))
		s.notify.Error(err.Error())
		return false
	}

	s.log.Info("logged in", zap.String("username", resp.Username))
	s.notify.Success(MsgLoggedIn)
	return true
}

// Logout clears token, username and balance.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		s.log.Error("failed to clear session", zap.Error(err))
		return err
	}
	s.log.Info("logged out")
	return nil
}

// Current returns the stored session.
func (s *Service) Current() models.Session {
	return s.store.Get()
}
