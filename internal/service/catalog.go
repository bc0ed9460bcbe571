package service

import (
	"context"
	"strings"

	"github.com/atinyakov/storefront/internal/models"
)

// ProductRepository defines the catalog persistence operations.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	// GetProduct returns repository.ErrNotFound for an unknown id.
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	UpsertProducts(ctx context.Context, products []models.Product) error
}

// CatalogService serves the product list and search.
type CatalogService struct {
	repo ProductRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(repo ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// List returns every product.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.repo.ListProducts(ctx)
}

// Search matches query against product names and categories, ignoring case.
// An empty query lists everything. No match yields ErrNoMatches.
func (s *CatalogService) Search(ctx context.Context, query string) ([]models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.repo.ListProducts(ctx)
	}
	found, err := s.repo.SearchProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNoMatches
	}
	return found, nil
}
