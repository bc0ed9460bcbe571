// Package search runs debounced product searches against the backend.
package search

import (
	"context"
	"errors"
	"strings"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/models"
)

// Outcome tells the caller what to show after a search.
type Outcome int

const (
	// OutcomeResults means the returned slice is the result set (possibly empty).
	OutcomeResults Outcome = iota
	// OutcomeCleared means the query was empty; show the unfiltered page.
	OutcomeCleared
	// OutcomeFallback means the search failed; show the last unfiltered page.
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResults:
		return "results"
	case OutcomeCleared:
		return "cleared"
	case OutcomeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Source is the backend call the searcher needs.
type Source interface {
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// Searcher wraps Source with the notification policy.
type Searcher struct {
	src    Source
	notify notify.Notifier
}

// NewSearcher constructs a Searcher.
func NewSearcher(src Source, n notify.Notifier) *Searcher {
	return &Searcher{src: src, notify: n}
}

// Search returns the products matching query. A blank query sends no request.
// "No matches" is not an error. Failures notify the shopper and ask the caller
// to fall back to the unfiltered page.
func (s *Searcher) Search(ctx context.Context, query string) ([]models.Product, Outcome) {
	if strings.TrimSpace(query) == "" {
		return nil, OutcomeCleared
	}

	found, err := s.src.Search(ctx, query)
	if err == nil {
		return found, OutcomeResults
	}
	if errors.Is(err, api.ErrNotFound) {
		return []models.Product{}, OutcomeResults
	}

	if msg, ok := api.MessageOf(err); ok {
		s.notify.Error(msg)
	} else {
		s.notify.Error(notify.MsgProductsUnavailable)
	}
	return nil, OutcomeFallback
}
