// Package main is the storefront terminal shell: log in, browse and search
// the catalog, and manage the cart against the storefront REST backend.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/auth"
	"github.com/atinyakov/storefront/internal/client/cart"
	"github.com/atinyakov/storefront/internal/client/listing"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/client/session"
	"github.com/atinyakov/storefront/internal/config"
	"github.com/atinyakov/storefront/internal/logger"
)

var (
	version   string
	buildDate string
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-version" || os.Args[1] == "--version") {
		fmt.Printf("Storefront Client\nVersion: %s\nBuild Date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return
	}

	opts, err := config.ParseClient(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.InitWithOutput(opts.LogLevel, opts.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	sh, closeFn, err := newShell(opts, log.Log)
	if err != nil {
		log.Log.Error("startup failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh.printf("Storefront shell. Type 'help' for commands.\n")
	sh.run(ctx, os.Stdin)
}

// newShell wires the API client, session store, notifier and listing
// controller. The returned func cancels pending searches.
func newShell(opts *config.ClientOptions, log *zap.Logger) (*shell, func(), error) {
	client, err := api.New(api.Config{
		BaseURL: opts.BaseURL,
		CAFile:  opts.CAFile,
		Timeout: opts.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		return nil, nil, err
	}

	store := session.NewFileStore(opts.SessionFile)
	if err := store.Load(); err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}

	sh := &shell{out: os.Stdout}
	notifier := notify.NewConsole(os.Stdout, log)

	sh.auth = auth.NewService(client, store, notifier, log)
	sh.listing = listing.New(client, store, notifier, listing.Config{
		PageSize: opts.PageSize,
		Debounce: opts.SearchDebounce,
		Policy:   cart.RestrictedProducts(opts.RestrictedProducts, opts.RestrictedMaxQty),
		Logger:   log,
		OnSearch: sh.render,
	})
	return sh, sh.listing.Close, nil
}
