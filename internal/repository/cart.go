package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/storefront/internal/models"
)

// PostgresCartRepository stores per-user cart lines in PostgreSQL.
type PostgresCartRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCartRepository creates a new PostgresCartRepository using the provided *sql.DB.
func NewPostgresCartRepository(db *sql.DB) *PostgresCartRepository {
	return &PostgresCartRepository{DB: db}
}

// GetCart returns the user's cart lines in the order they were first added.
func (r *PostgresCartRepository) GetCart(ctx context.Context, userID string) ([]models.CartEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT product_id, qty FROM cart_items WHERE user_id = $1 ORDER BY added_at, product_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("GetCart: %w", err)
	}
	defer rows.Close()

	entries := []models.CartEntry{}
	for rows.Next() {
		var e models.CartEntry
		if err := rows.Scan(&e.ProductID, &e.Quantity); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}

// SetQuantity sets productID to qty in the user's cart. A qty of 0 removes
// the line. An existing line keeps its position.
func (r *PostgresCartRepository) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	if qty == 0 {
		_, err := r.DB.ExecContext(ctx,
			`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
			userID, productID,
		)
		if err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		return nil
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, product_id, qty)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id) DO UPDATE SET qty = EXCLUDED.qty
	`, userID, productID, qty)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}
