// Package main starts the storefront reference backend: it wires
// configuration, logging, the repositories (PostgreSQL or in-memory),
// services, HTTP handlers and optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/storefront/internal/config"
	"github.com/atinyakov/storefront/internal/db"
	"github.com/atinyakov/storefront/internal/logger"
	"github.com/atinyakov/storefront/internal/middleware"
	"github.com/atinyakov/storefront/internal/repository"
	"github.com/atinyakov/storefront/internal/server/handler/http"
	"github.com/atinyakov/storefront/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

// repositories groups the storage backends the services depend on.
type repositories struct {
	users    service.UserRepository
	products service.ProductRepository
	carts    service.CartRepository
	purger   db.SessionPurger
	close    func() error
}

func main() {
	options, err := config.ParseServer(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func openRepositories(dsn string, log *zap.Logger) (*repositories, error) {
	if dsn == "" {
		log.Info("using in-memory repositories")
		mem := repository.NewMemory()
		return &repositories{users: mem, products: mem, carts: mem, purger: mem, close: func() error { return nil }}, nil
	}

	postgresDB, err := db.InitPostgres(dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot init database: %w", err)
	}
	users := repository.NewPostgresUserRepository(postgresDB)
	return &repositories{
		users:    users,
		products: repository.NewPostgresProductRepository(postgresDB),
		carts:    repository.NewPostgresCartRepository(postgresDB),
		purger:   users,
		close:    postgresDB.Close,
	}, nil
}

// newHandler builds the services and the router on top of repos, seeding the
// demo data first when requested.
func newHandler(ctx context.Context, options *config.ServerOptions, repos *repositories, log *zap.Logger) (nethttp.Handler, error) {
	authService := service.NewAuthService(repos.users, options.SessionTTL)
	catalogService := service.NewCatalogService(repos.products)
	cartService := service.NewCartService(repos.carts, repos.products)

	if options.Seed {
		if err := service.Seed(ctx, authService, repos.products); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		log.Info("seeded demo catalog", zap.String("username", service.DemoUsername))
	}

	return http.NewRouter(
		&http.AuthHandler{AuthService: authService, Logger: log},
		&http.CatalogHandler{CatalogService: catalogService, Logger: log},
		&http.CartHandler{CartService: cartService, Logger: log},
		authService,
		middleware.NewMetrics(),
		log,
	), nil
}

func run(ctx context.Context, options *config.ServerOptions, log *zap.Logger) error {
	repos, err := openRepositories(options.DatabaseDSN, log)
	if err != nil {
		return err
	}
	defer func() { _ = repos.close() }()

	router, err := newHandler(ctx, options, repos, log)
	if err != nil {
		return err
	}

	db.StartSessionCleaner(ctx, repos.purger, options.CleanerInterval, log)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	useTLS := options.TLSCert != "" && options.TLSKey != ""
	if useTLS {
		cert, err := tls.LoadX509KeyPair(options.TLSCert, options.TLSKey)
		if err != nil {
			return fmt.Errorf("failed to load server TLS cert/key: %w", err)
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", zap.String("addr", options.Port), zap.Bool("tls", useTLS))
		var err error
		if useTLS {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down server")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
