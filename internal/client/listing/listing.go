// Package listing holds the product listing state: the catalog, the current
// page, the active search and the cart sidebar.
//
// The controller is the only writer of that state. Search and cart responses
// carry a generation number and are applied only if no newer request of the
// same kind was issued after them, so the last issued request wins.
package listing

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/cart"
	"github.com/atinyakov/storefront/internal/client/catalog"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/client/search"
	"github.com/atinyakov/storefront/internal/client/session"
	"github.com/atinyakov/storefront/internal/models"
)

// Backend is the set of API calls the controller drives.
type Backend interface {
	catalog.ProductSource
	search.Source
	cart.Upserter
	Cart(ctx context.Context, token string) ([]models.CartEntry, error)
}

// Config tunes a Controller. Zero values pick the defaults.
type Config struct {
	PageSize int
	Debounce time.Duration
	Clock    clock.Clock
	Policy   cart.QuantityPolicy
	Logger   *zap.Logger
	// OnSearch is called with a fresh snapshot each time a debounced search
	// result is applied. It runs on the timer goroutine.
	OnSearch func(View)
}

// View is an immutable snapshot for the render layer.
type View struct {
	Page      int
	PageSize  int
	PageCount int
	ShowPager bool
	// Products is what the grid shows: the current page, or search results.
	Products   []models.Product
	SearchText string
	Cart       []models.CartItem
	CartTotal  decimal.Decimal
	CartUnits  int
	Session    models.Session
}

// Controller is the listing state machine.
type Controller struct {
	backend    Backend
	sessions   session.Store
	notify     notify.Notifier
	fetcher    *catalog.Fetcher
	searcher   *search.Searcher
	debouncer  *search.Debouncer
	reconciler *cart.Reconciler
	onSearch   func(View)
	log        *zap.Logger

	mu         sync.Mutex
	pageSize   int
	page       int
	catalog    []models.Product
	entries    []models.CartEntry
	items      []models.CartItem
	unfiltered []models.Product
	filtered   []models.Product
	searchText string
	searchCtx  context.Context
	pending    *clock.Timer
	searchGen  uint64
	// cartGen orders cart requests by issue; cartApplied is the newest one
	// whose server response is on display. Failed requests never advance it.
	cartGen     uint64
	cartApplied uint64
}

// New constructs a Controller on page 1 with an empty catalog.
func New(b Backend, store session.Store, n notify.Notifier, cfg Config) *Controller {
	if cfg.PageSize <= 0 {
		cfg.PageSize = catalog.DefaultPageSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	c := &Controller{
		backend:    b,
		sessions:   store,
		notify:     n,
		fetcher:    catalog.NewFetcher(b, n),
		searcher:   search.NewSearcher(b, n),
		reconciler: cart.NewReconciler(b, n, cfg.Policy, cfg.Logger),
		onSearch:   cfg.OnSearch,
		log:        cfg.Logger,
		pageSize:   cfg.PageSize,
		page:       1,
		catalog:    []models.Product{},
		entries:    []models.CartEntry{},
		items:      []models.CartItem{},
		unfiltered: []models.Product{},
		filtered:   []models.Product{},
		searchCtx:  context.Background(),
	}
	c.debouncer = search.NewDebouncer(cfg.Clock, cfg.Debounce, c.runSearch)
	return c
}

// Activate loads the catalog and, for a logged-in shopper, the cart in
// parallel, then shows page 1. Calling it again reloads both. Backend failures
// degrade to empty results; cancelling ctx abandons the reload and keeps the
// current state.
func (c *Controller) Activate(ctx context.Context) View {
	token := c.sessions.Token()

	c.mu.Lock()
	c.cartGen++
	gen := c.cartGen
	c.mu.Unlock()

	var (
		products []models.Product
		entries  = []models.CartEntry{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products = c.fetcher.FetchAll(gctx)
		return ctx.Err()
	})
	if token != "" {
		g.Go(func() error {
			entries = c.fetchCart(gctx, token)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		c.log.Debug("listing activation abandoned", zap.Error(err))
		return c.View()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalog = products
	if gen > c.cartApplied {
		c.cartApplied = gen
		c.entries = entries
	}
	c.items = cart.Join(c.entries, c.catalog)
	c.resetToPageLocked(1)
	c.log.Debug("listing activated", zap.Int("products", len(products)), zap.Int("cart_entries", len(c.entries)))
	return c.viewLocked()
}

func (c *Controller) fetchCart(ctx context.Context, token string) []models.CartEntry {
	entries, err := c.backend.Cart(ctx, token)
	if err != nil {
		c.log.Warn("cart fetch failed", zap.Error(err))
		if msg, ok := api.MessageOf(err); ok && api.StatusOf(err) == http.StatusBadRequest {
			c.notify.Error(msg)
		} else {
			c.notify.Error(notify.MsgCartUnavailable)
		}
		return []models.CartEntry{}
	}
	return entries
}

// ChangePage moves to page n and clears any active search.
func (c *Controller) ChangePage(n int) View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetToPageLocked(n)
	return c.viewLocked()
}

func (c *Controller) resetToPageLocked(n int) {
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	// Drops a search still in flight.
	c.searchGen++
	c.searchText = ""
	c.page = n
	c.unfiltered = catalog.Page(c.catalog, c.pageSize, n)
	c.filtered = c.unfiltered
}

// Keystroke records the search box text. The search runs once typing pauses,
// and its result is applied only while its text is still in the box and no
// newer search has started.
func (c *Controller) Keystroke(ctx context.Context, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchText = text
	c.searchCtx = ctx
	c.pending = c.debouncer.OnKeystroke(text, c.pending)
}

func (c *Controller) runSearch(text string) {
	c.mu.Lock()
	if text != c.searchText {
		// Superseded by a page change after the timer fired.
		c.mu.Unlock()
		return
	}
	c.searchGen++
	gen := c.searchGen
	ctx := c.searchCtx
	c.mu.Unlock()

	found, outcome := c.searcher.Search(ctx, text)

	c.mu.Lock()
	if gen != c.searchGen || text != c.searchText {
		c.mu.Unlock()
		c.log.Debug("dropping stale search result", zap.String("query", text))
		return
	}
	switch outcome {
	case search.OutcomeResults:
		c.filtered = found
	default:
		c.filtered = c.unfiltered
	}
	v := c.viewLocked()
	c.mu.Unlock()

	if c.onSearch != nil {
		c.onSearch(v)
	}
}

// AddToCart adds one unit of productID from the product grid.
func (c *Controller) AddToCart(ctx context.Context, productID string) View {
	return c.mutateCart(ctx, productID, 1, cart.Options{PreventDuplicate: true})
}

// SetQuantity sets productID to qty from the cart sidebar. Zero removes it.
func (c *Controller) SetQuantity(ctx context.Context, productID string, qty int) View {
	return c.mutateCart(ctx, productID, qty, cart.Options{})
}

func (c *Controller) mutateCart(ctx context.Context, productID string, qty int, opts cart.Options) View {
	token := c.sessions.Token()

	c.mu.Lock()
	c.cartGen++
	gen := c.cartGen
	current := c.items
	products := c.catalog
	var stock *int
	for _, p := range products {
		if p.ID == productID {
			stock = p.Stock
			break
		}
	}
	c.mu.Unlock()

	items, changed := c.reconciler.AddOrUpdate(ctx, token, current, products, productID, qty, stock, opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	// A later cart write that already landed wins over this one.
	if changed && gen > c.cartApplied {
		c.cartApplied = gen
		c.items = items
		c.entries = cart.Entries(items)
	}
	return c.viewLocked()
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Product looks a product up in the loaded catalog.
func (c *Controller) Product(id string) (models.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Close cancels a pending search.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
	c.searchGen++
}

func (c *Controller) viewLocked() View {
	products := make([]models.Product, len(c.filtered))
	copy(products, c.filtered)
	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)

	return View{
		Page:       c.page,
		PageSize:   c.pageSize,
		PageCount:  catalog.PageCount(len(c.catalog), c.pageSize),
		ShowPager:  len(c.filtered) >= c.pageSize && len(c.catalog) > c.pageSize,
		Products:   products,
		SearchText: c.searchText,
		Cart:       items,
		CartTotal:  cart.TotalValue(items),
		CartUnits:  cart.TotalQuantity(items),
		Session:    c.sessions.Get(),
	}
}
