// Package repository provides persistence implementations for the storefront
// backend: users, sessions, products and carts, backed by PostgreSQL or by
// process memory.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")
