// Package cart reconciles the shopper's cart with the backend and derives the
// rows shown in the cart sidebar.
package cart

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/models"
)

// Messages raised by AddOrUpdate.
const (
	MsgQuantityCapped = "You cannot order more than 5 of this product"
	MsgOutOfStock     = "The given product is out of stock"
	MsgLoginRequired  = "Login to add an item to the Cart"
	MsgAlreadyInCart  = "Item already in cart. Use the cart sidebar to update quantity or remove item."
)

// Join maps each entry to its catalog product, keeping entry order. Entries
// whose product is not in the catalog are dropped. A nil entries slice yields
// an empty, non-nil result.
func Join(entries []models.CartEntry, catalog []models.Product) []models.CartItem {
	byID := make(map[string]models.Product, len(catalog))
	for _, p := range catalog {
		if _, seen := byID[p.ID]; !seen {
			byID[p.ID] = p
		}
	}

	items := make([]models.CartItem, 0, len(entries))
	for _, e := range entries {
		p, ok := byID[e.ProductID]
		if !ok {
			continue
		}
		items = append(items, models.CartItem{Product: p, Quantity: e.Quantity})
	}
	return items
}

// Entries turns display rows back into (productId, qty) pairs.
func Entries(items []models.CartItem) []models.CartEntry {
	out := make([]models.CartEntry, 0, len(items))
	for _, it := range items {
		out = append(out, models.CartEntry{ProductID: it.Product.ID, Quantity: it.Quantity})
	}
	return out
}

// IsInCart reports whether productID appears in entries.
func IsInCart(entries []models.CartEntry, productID string) bool {
	for _, e := range entries {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

// IsItemInCart reports whether productID appears in items.
func IsItemInCart(items []models.CartItem, productID string) bool {
	for _, it := range items {
		if it.Product.ID == productID {
			return true
		}
	}
	return false
}

// TotalValue is the sum of cost times quantity over items.
func TotalValue(items []models.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Product.Cost).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total
}

// TotalQuantity is the number of units across items.
func TotalQuantity(items []models.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// QuantityPolicy reports whether qty units of productID may be ordered.
type QuantityPolicy func(productID string, qty int) bool

// AllowAll is the policy that accepts every quantity.
func AllowAll(string, int) bool { return true }

// RestrictedProducts caps the listed products at maxQty units.
func RestrictedProducts(ids []string, maxQty int) QuantityPolicy {
	capped := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		capped[id] = struct{}{}
	}
	return func(productID string, qty int) bool {
		if _, ok := capped[productID]; ok {
			return qty <= maxQty
		}
		return true
	}
}

// Upserter is the backend call the reconciler needs.
type Upserter interface {
	UpsertCart(ctx context.Context, token, productID string, qty int) ([]models.CartEntry, error)
}

// Options tunes a single AddOrUpdate call.
type Options struct {
	// PreventDuplicate rejects products already in the cart. The product grid
	// sets it; the cart sidebar does not.
	PreventDuplicate bool
}

// Reconciler applies cart changes against the backend.
type Reconciler struct {
	src    Upserter
	notify notify.Notifier
	policy QuantityPolicy
	log    *zap.Logger
}

// NewReconciler constructs a Reconciler. A nil policy allows every quantity.
func NewReconciler(src Upserter, n notify.Notifier, policy QuantityPolicy, log *zap.Logger) *Reconciler {
	if policy == nil {
		policy = AllowAll
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{src: src, notify: n, policy: policy, log: log}
}

// AddOrUpdate sets productID to qty in the cart. stock is the known stock
// level, nil when untracked. It returns the new display rows and true when the
// backend accepted the change; otherwise it returns current unchanged and false.
// A qty of 0 is sent as is and the backend removes the line.
func (r *Reconciler) AddOrUpdate(
	ctx context.Context,
	token string,
	current []models.CartItem,
	catalog []models.Product,
	productID string,
	qty int,
	stock *int,
	opts Options,
) ([]models.CartItem, bool) {
	if !r.policy(productID, qty) {
		r.notify.Alert(MsgQuantityCapped)
		return current, false
	}
	if stock != nil && *stock == 0 {
		r.notify.Alert(MsgOutOfStock)
		return current, false
	}
	if token == "" {
		r.notify.Warn(MsgLoginRequired)
		return current, false
	}
	if opts.PreventDuplicate && IsItemInCart(current, productID) {
		r.notify.Warn(MsgAlreadyInCart)
		return current, false
	}

	entries, err := r.src.UpsertCart(ctx, token, productID, qty)
	if err != nil {
		r.log.Warn("cart upsert failed", zap.String("product_id", productID), zap.Int("qty", qty), zap.Error(err))
		if msg, ok := api.MessageOf(err); ok {
			r.notify.Error(msg)
		} else {
			r.notify.Error(notify.MsgProductsUnavailable)
		}
		return current, false
	}
	return Join(entries, catalog), true
}
