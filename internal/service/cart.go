package service

import (
	"context"
	"errors"

	"github.com/atinyakov/storefront/internal/models"
	"github.com/atinyakov/storefront/internal/repository"
)

// CartRepository defines the cart persistence operations.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) ([]models.CartEntry, error)
	SetQuantity(ctx context.Context, userID, productID string, qty int) error
}

// CartService applies cart changes and always answers with the full cart.
type CartService struct {
	carts    CartRepository
	products ProductRepository
}

// NewCartService constructs a CartService.
func NewCartService(carts CartRepository, products ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the user's cart.
func (s *CartService) Get(ctx context.Context, userID string) ([]models.CartEntry, error) {
	return s.carts.GetCart(ctx, userID)
}

// Upsert sets productID to qty for the user and returns the resulting cart.
// A qty of 0 removes the line. Unknown products yield ErrProductNotFound.
func (s *CartService) Upsert(ctx context.Context, userID, productID string, qty int) ([]models.CartEntry, error) {
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if err := s.carts.SetQuantity(ctx, userID, productID, qty); err != nil {
		return nil, err
	}
	return s.carts.GetCart(ctx, userID)
}
