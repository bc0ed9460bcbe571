package repository

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/storefront/internal/models"
)

type memorySession struct {
	userID    string
	expiresAt time.Time
}

// Memory keeps users, sessions, products and carts in process memory. It
// satisfies the same interfaces as the PostgreSQL repositories and backs the
// server when no DSN is configured.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]models.User
	sessions map[string]memorySession
	products map[string]models.Product
	carts    map[string][]models.CartEntry
}

// NewMemory returns an empty Memory.
func NewMemory() *Memory {
	return &Memory{
		users:    map[string]models.User{},
		sessions: map[string]memorySession{},
		products: map[string]models.Product{},
		carts:    map[string][]models.CartEntry{},
	}
}

func (m *Memory) GetByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *Memory) CreateUser(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; !ok {
		m.users[u.Username] = u
	}
	return nil
}

func (m *Memory) CreateSession(_ context.Context, token, userID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memorySession{userID: userID, expiresAt: expiresAt}
	return nil
}

func (m *Memory) UserIDForToken(_ context.Context, token string, now time.Time) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok || !s.expiresAt.After(now) {
		return "", ErrNotFound
	}
	return s.userID, nil
}

// PurgeExpiredSessions drops sessions that expired before now and reports how
// many were removed.
func (m *Memory) PurgeExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for token, s := range m.sessions {
		if !s.expiresAt.After(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

func (m *Memory) ListProducts(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedProducts(func(models.Product) bool { return true }), nil
}

func (m *Memory) SearchProducts(_ context.Context, query string) ([]models.Product, error) {
	q := strings.ToLower(query)
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedProducts(func(p models.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q)
	}), nil
}

func (m *Memory) sortedProducts(keep func(models.Product) bool) []models.Product {
	out := []models.Product{}
	for _, p := range m.products {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Memory) GetProduct(_ context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) UpsertProducts(_ context.Context, products []models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range products {
		m.products[p.ID] = p
	}
	return nil
}

func (m *Memory) GetCart(_ context.Context, userID string) ([]models.CartEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.CartEntry{}, m.carts[userID]...), nil
}

func (m *Memory) SetQuantity(_ context.Context, userID, productID string, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	idx := slices.IndexFunc(lines, func(e models.CartEntry) bool { return e.ProductID == productID })
	switch {
	case qty == 0 && idx >= 0:
		lines = slices.Delete(lines, idx, idx+1)
	case qty == 0:
	case idx >= 0:
		lines[idx].Quantity = qty
	default:
		lines = append(lines, models.CartEntry{ProductID: productID, Quantity: qty})
	}
	m.carts[userID] = lines
	return nil
}
