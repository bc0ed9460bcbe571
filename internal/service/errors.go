// Package service provides the storefront backend's business logic,
// delegating persistence to repository interfaces.
package service

import "errors"

// Errors returned to handlers.
var (
	ErrUnknownUser     = errors.New("username does not exist")
	ErrWrongPassword   = errors.New("password is incorrect")
	ErrUnauthenticated = errors.New("unknown or expired token")
	ErrNoMatches       = errors.New("no products match")
	ErrProductNotFound = errors.New("product doesn't exist")
)
