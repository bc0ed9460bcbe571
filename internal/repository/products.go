package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/atinyakov/storefront/internal/models"
)

const productColumns = `id, name, category, cost, rating, image, stock`

// PostgresProductRepository reads and writes the product catalog in PostgreSQL.
type PostgresProductRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresProductRepository creates a new PostgresProductRepository using the provided *sql.DB.
func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{DB: db}
}

// ListProducts returns the whole catalog in a stable order.
func (r *PostgresProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	return scanProducts(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchProducts returns products whose name or category contains query,
// ignoring case.
func (r *PostgresProductRepository) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE name ILIKE $1 OR category ILIKE $1
		ORDER BY id
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("SearchProducts: %w", err)
	}
	return scanProducts(rows)
}

// GetProduct returns the product with the given id or ErrNotFound.
func (r *PostgresProductRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("GetProduct: %w", err)
	}
	products, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrNotFound
	}
	return &products[0], nil
}

// UpsertProducts inserts or updates products within a transaction.
func (r *PostgresProductRepository) UpsertProducts(ctx context.Context, products []models.Product) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range products {
		var stock sql.NullInt64
		if p.Stock != nil {
			stock = sql.NullInt64{Int64: int64(*p.Stock), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO products (id, name, category, cost, rating, image, stock)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				cost = EXCLUDED.cost,
				rating = EXCLUDED.rating,
				image = EXCLUDED.image,
				stock = EXCLUDED.stock
		`, p.ID, p.Name, p.Category, p.Cost, p.Rating, p.Image, stock)
		if err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func scanProducts(rows *sql.Rows) ([]models.Product, error) {
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var (
			p     models.Product
			stock sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Cost, &p.Rating, &p.Image, &stock); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if stock.Valid {
			n := int(stock.Int64)
			p.Stock = &n
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}
