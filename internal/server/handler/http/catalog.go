package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/storefront/internal/models"
	"github.com/atinyakov/storefront/internal/service"
)

// CatalogService defines the catalog operations required by the handlers.
type CatalogService interface {
	List(ctx context.Context) ([]models.Product, error)
	// Search returns service.ErrNoMatches when nothing matches.
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// CatalogHandler serves the product list and search.
type CatalogHandler struct {
	CatalogService CatalogService
	Logger         *zap.Logger
}

// List handles GET /products.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.CatalogService.List(r.Context())
	if err != nil {
		h.Logger.Error("list products failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Search handles GET /products/search?value=Q. No match answers 404 with an
// empty array.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.CatalogService.Search(r.Context(), r.URL.Query().Get("value"))
	switch {
	case errors.Is(err, service.ErrNoMatches):
		writeJSON(w, http.StatusNotFound, []models.Product{})
	case err != nil:
		h.Logger.Error("search products failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, MsgInternal)
	default:
		writeJSON(w, http.StatusOK, products)
	}
}
