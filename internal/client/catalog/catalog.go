// Package catalog fetches the product list and slices it into pages.
package catalog

import (
	"context"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/models"
)

// DefaultPageSize is the number of products shown per page.
const DefaultPageSize = 12

// ProductSource is the backend call the fetcher needs.
type ProductSource interface {
	Products(ctx context.Context) ([]models.Product, error)
}

// Fetcher retrieves the full catalog.
type Fetcher struct {
	src    ProductSource
	notify notify.Notifier
}

// NewFetcher constructs a Fetcher.
func NewFetcher(src ProductSource, n notify.Notifier) *Fetcher {
	return &Fetcher{src: src, notify: n}
}

// FetchAll returns the complete catalog. On failure it raises exactly one
// notification and returns an empty slice so the view degrades to its empty
// state. It never retries.
func (f *Fetcher) FetchAll(ctx context.Context) []models.Product {
	products, err := f.src.Products(ctx)
	if err != nil {
		if msg, ok := api.MessageOf(err); ok && api.StatusOf(err) >= 500 {
			f.notify.Error(msg)
		} else {
			f.notify.Error(notify.MsgProductsUnavailable)
		}
		return []models.Product{}
	}
	return products
}

// Page returns the elements at [(pageNumber-1)*pageSize, pageNumber*pageSize).
// Out-of-range pages and non-positive arguments yield an empty slice.
func Page(all []models.Product, pageSize, pageNumber int) []models.Product {
	if pageSize <= 0 || pageNumber <= 0 {
		return []models.Product{}
	}
	start := (pageNumber - 1) * pageSize
	if start >= len(all) {
		return []models.Product{}
	}
	end := min(start+pageSize, len(all))
	out := make([]models.Product, end-start)
	copy(out, all[start:end])
	return out
}

// PageCount is the number of pages needed for total items, counting the final
// partial page.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
