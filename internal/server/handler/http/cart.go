package http

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/storefront/internal/middleware"
	"github.com/atinyakov/storefront/internal/models"
	"github.com/atinyakov/storefront/internal/service"
)

// CartService defines the cart operations required by the CartHandler.
type CartService interface {
	Get(ctx context.Context, userID string) ([]models.CartEntry, error)
	// Upsert returns the full cart after the change, or
	// service.ErrProductNotFound for an unknown product.
	Upsert(ctx context.Context, userID, productID string, qty int) ([]models.CartEntry, error)
}

// CartHandler handles the authenticated cart endpoints.
type CartHandler struct {
	CartService CartService
	Logger      *zap.Logger
}

// Get handles GET /cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	entries, err := h.CartService.Get(r.Context(), userID)
	if err != nil {
		h.Logger.Error("get cart failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// Upsert handles POST /cart with {productId, qty}. A qty of 0 removes the
// product. The response is the full cart.
func (h *CartHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req models.CartUpsertRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.CartService.Upsert(r.Context(), userID, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "Product doesn't exist")
	case err != nil:
		h.Logger.Error("upsert cart failed", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, MsgInternal)
	default:
		writeJSON(w, http.StatusOK, entries)
	}
}
