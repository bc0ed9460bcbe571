package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/storefront/internal/models"
)

// PostgresUserRepository stores users and their login sessions in PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetByUsername returns the user with the given username or ErrNotFound.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, username, password_hash, balance FROM users WHERE username = $1`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: %w", err)
	}
	return &u, nil
}

// CreateUser inserts u. An existing username is left untouched.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, balance) VALUES ($1, $2, $3, $4) ON CONFLICT (username) DO NOTHING`,
		u.ID, u.Username, u.PasswordHash, u.Balance,
	)
	return err
}

// CreateSession records a login token for userID valid until expiresAt.
func (r *PostgresUserRepository) CreateSession(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("CreateSession: %w", err)
	}
	return nil
}

// UserIDForToken resolves a token that has not expired at now, or returns ErrNotFound.
func (r *PostgresUserRepository) UserIDForToken(ctx context.Context, token string, now time.Time) (string, error) {
	var userID string
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id FROM sessions WHERE token = $1 AND expires_at > $2`,
		token, now,
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("UserIDForToken: %w", err)
	}
	return userID, nil
}

// PurgeExpiredSessions deletes sessions that expired before now and reports
// how many rows were removed.
func (r *PostgresUserRepository) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("PurgeExpiredSessions: %w", err)
	}
	return res.RowsAffected()
}
