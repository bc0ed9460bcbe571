package service

import (
	"context"
	"fmt"

	"github.com/atinyakov/storefront/internal/models"
)

// DemoUsername and DemoPassword are the credentials of the seeded shopper.
const (
	DemoUsername = "crio.do"
	DemoPassword = "learnbydoing"
	DemoBalance  = 5000
)

func stock(n int) *int { return &n }

// DemoProducts returns the seeded catalog.
func DemoProducts() []models.Product {
	return []models.Product{
		{ID: "1CRwjF7lN97HnEa", Name: "UNIFACTOR Mens Running Shoes", Category: "Fashion", Cost: 50, Rating: 5},
		{ID: "2CRwjF7lN97HnEa", Name: "YONEX Smash Badminton Racquet", Category: "Sports", Cost: 100, Rating: 5},
		{ID: "3CRwjF7lN97HnEa", Name: "Tan Leatherette Weekender Duffle", Category: "Fashion", Cost: 150, Rating: 4},
		{ID: "4CRwjF7lN97HnEa", Name: "The Minimalist Slim Leather Watch", Category: "Electronics", Cost: 60, Rating: 5},
		{ID: "5CRwjF7lN97HnEa", Name: "Atomberg 1200mm BLDC Fan", Category: "Home & Kitchen", Cost: 140, Rating: 4},
		{ID: "6CRwjF7lN97HnEa", Name: "Bonsai Spirit Tree Table Lamp", Category: "Home & Kitchen", Cost: 40, Rating: 3},
		{ID: "7CRwjF7lN97HnEa", Name: "Stylecon 9 Seater RHS Sofa Set", Category: "Home & Kitchen", Cost: 650, Rating: 3, Stock: stock(0)},
		{ID: "8CRwjF7lN97HnEa", Name: "Diamond Studded Gold Ring", Category: "Fashion", Cost: 920, Rating: 4},
		{ID: "9CRwjF7lN97HnEa", Name: "Mi Smart Band 4", Category: "Electronics", Cost: 25, Rating: 4},
		{ID: "ACRwjF7lN97HnEa", Name: "Roadster Mens Black Jacket", Category: "Fashion", Cost: 85, Rating: 4},
		{ID: "BCRwjF7lN97HnEa", Name: "Apple iPhone XR (64GB) - Black", Category: "Phones", Cost: 750, Rating: 5, Stock: stock(12)},
		{ID: "CCRwjF7lN97HnEa", Name: "Samsung Galaxy M31 Phone", Category: "Phones", Cost: 300, Rating: 4},
		{ID: "DCRwjF7lN97HnEa", Name: "Nivia Storm Football", Category: "Sports", Cost: 20, Rating: 4},
		{ID: "ECRwjF7lN97HnEa", Name: "Cosco Basketball", Category: "Sports", Cost: 18, Rating: 3},
	}
}

// Seed loads the demo catalog and the demo shopper. It is idempotent.
func Seed(ctx context.Context, auth *AuthService, products ProductRepository) error {
	if err := products.UpsertProducts(ctx, DemoProducts()); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	if err := auth.Register(ctx, DemoUsername, DemoPassword, DemoBalance); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	return nil
}
