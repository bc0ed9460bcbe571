package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/storefront/internal/models"
	"github.com/atinyakov/storefront/internal/repository"
)

// UserRepository defines the persistence operations required by the
// authentication service.
type UserRepository interface {
	// GetByUsername returns repository.ErrNotFound for an unknown username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) error
	CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error
	// UserIDForToken returns repository.ErrNotFound for an unknown or expired token.
	UserIDForToken(ctx context.Context, token string, now time.Time) (string, error)
}

// AuthService checks passwords and issues session tokens.
type AuthService struct {
	repo UserRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewAuthService constructs an AuthService issuing tokens valid for ttl.
func NewAuthService(repo UserRepository, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, ttl: ttl, now: time.Now}
}

// Login verifies the credentials and returns a fresh session token along with
// the user's balance.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	token := uuid.NewString()
	if err := s.repo.CreateSession(ctx, token, u.ID, s.now().Add(s.ttl)); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &models.LoginResponse{Success: true, Token: token, Username: u.Username, Balance: u.Balance}, nil
}

// Authenticate resolves a bearer token to a user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.repo.UserIDForToken(ctx, token, s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrUnauthenticated
	}
	return userID, err
}

// Register creates a user with a bcrypt-hashed password. An existing
// username is left untouched.
func (s *AuthService) Register(ctx context.Context, username, password string, balance float64) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Balance:      balance,
	})
}
