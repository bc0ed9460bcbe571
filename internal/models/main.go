// Package models defines the core data structures shared by the storefront
// client and the reference backend.
package models

// User represents a shopper account known to the backend.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// Balance is the wallet balance reported on login.
	Balance float64
}

// Product is a purchasable catalog item. Products are immutable once fetched
// and are identified by ID.
type Product struct {
	// ID is the unique identifier for the product.
	ID string `json:"_id"`
	// Name is the display name of the product.
	Name string `json:"name"`
	// Category groups products for search.
	Category string `json:"category"`
	// Cost is the non-negative unit price.
	Cost float64 `json:"cost"`
	// Rating is the aggregate rating, an integer out of five.
	Rating int `json:"rating"`
	// Image is the URL of the product image.
	Image string `json:"image"`
	// Stock is the number of units available, nil when the backend does not track it.
	Stock *int `json:"stock,omitempty"`
}

// CartEntry is the backend-authoritative (productId, qty) pair.
type CartEntry struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"qty"`
}

// CartItem is a display row joining a cart entry to its product.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"qty"`
}

// Session holds the shopper's login state. An empty Token means anonymous.
type Session struct {
	Token    string   `json:"token,omitempty"`
	Username string   `json:"username,omitempty"`
	Balance  *float64 `json:"balance,omitempty"`
}

// Anonymous reports whether no auth token is present.
func (s Session) Anonymous() bool {
	return s.Token == ""
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the body returned by a successful login.
type LoginResponse struct {
	Success  bool    `json:"success"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

// CartUpsertRequest is the body of POST /cart.
type CartUpsertRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"qty" validate:"gte=0"`
}

// ErrorResponse is the failure body every backend endpoint returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
