package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/storefront/internal/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the storefront
// API.
//
// Routes:
//
//	POST /api/v1/auth/login        → authHandler.Login
//	GET  /api/v1/products          → catalogHandler.List
//	GET  /api/v1/products/search   → catalogHandler.Search
//	GET  /api/v1/cart              → cartHandler.Get (bearer token)
//	POST /api/v1/cart              → cartHandler.Upsert (bearer token)
//	GET  /metrics                  → Prometheus metrics
//
// Middleware chain (applied in order):
//  1. metrics.Middleware          counts and times requests
//  2. WithRequestLogging(logger)  logs incoming requests
//  3. Recoverer                   turns panics into 500s
//  4. AllowContentType            rejects non-JSON bodies under /api/v1
//  5. TokenAuth(auth)             on the cart group only
func NewRouter(
	authHandler *AuthHandler,
	catalogHandler *CatalogHandler,
	cartHandler *CartHandler,
	auth middleware.Authenticator,
	metrics *middleware.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(chiMiddleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Bodies, when present, must be JSON.
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Post("/auth/login", authHandler.Login)
		r.Get("/products", catalogHandler.List)
		r.Get("/products/search", catalogHandler.Search)

		r.Group(func(r chi.Router) {
			r.Use(middleware.TokenAuth(auth))
			r.Get("/cart", cartHandler.Get)
			r.Post("/cart", cartHandler.Upsert)
		})
	})

	return r
}
