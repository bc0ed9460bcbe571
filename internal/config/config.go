// Package config provides functionality for managing configuration options
// for the storefront binaries using command-line flags, an optional JSON config
// file, a .env file and environment variables.
//
// Precedence, lowest to highest: flag defaults and explicit flags, the JSON
// config file, then STOREFRONT_* environment variables (a .env file in the
// working directory is loaded first and never overrides real environment).
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment variable read by this package.
const EnvPrefix = "STOREFRONT"

// DefaultRestrictedProducts are the product ids capped by the quantity policy
// unless configured otherwise.
var DefaultRestrictedProducts = []string{"3CRwjF7lN97HnEa", "4CRwjF7lN97HnEa"}

// ClientOptions holds the configuration values for the storefront shell.
type ClientOptions struct {
	// BaseURL is the backend REST base URL.
	BaseURL string `json:"base_url" envconfig:"BASE_URL"`

	// SessionFile is where the session store persists token, username and balance.
	SessionFile string `json:"session_file" envconfig:"SESSION_FILE"`

	// CAFile optionally points at a PEM bundle trusted for an HTTPS backend.
	CAFile string `json:"ca_file" envconfig:"CA_FILE"`

	LogLevel string `json:"log_level" envconfig:"LOG_LEVEL"`
	LogFile  string `json:"log_file" envconfig:"LOG_FILE"`

	// PageSize is the number of products per catalog page.
	PageSize int `json:"page_size" envconfig:"PAGE_SIZE"`

	// SearchDebounce is the quiet interval before a search request fires.
	SearchDebounce time.Duration `json:"-" envconfig:"SEARCH_DEBOUNCE"`

	// RequestTimeout bounds every backend call.
	RequestTimeout time.Duration `json:"-" envconfig:"REQUEST_TIMEOUT"`

	// RestrictedProducts lists product ids whose order quantity is capped at
	// RestrictedMaxQty.
	RestrictedProducts []string `json:"restricted_products" envconfig:"RESTRICTED_PRODUCTS"`
	RestrictedMaxQty   int      `json:"restricted_max_qty" envconfig:"RESTRICTED_MAX_QTY"`

	// Config is the path to the JSON config file.
	Config string `json:"-" envconfig:"CONFIG"`
}

// ServerOptions holds the configuration values for the reference backend.
type ServerOptions struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"port" envconfig:"SERVER_ADDRESS"`

	// DatabaseDSN holds the PostgreSQL connection string. Empty selects the
	// in-memory repositories.
	DatabaseDSN string `json:"database_dsn" envconfig:"DATABASE_DSN"`

	LogLevel string `json:"log_level" envconfig:"LOG_LEVEL"`

	// Seed loads the demo catalog and the demo user on startup.
	Seed bool `json:"seed" envconfig:"SEED"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert" envconfig:"TLS_CERT"`
	TLSKey  string `json:"tls_key" envconfig:"TLS_KEY"`

	// SessionTTL is how long an issued login token stays valid.
	SessionTTL time.Duration `json:"-" envconfig:"SESSION_TTL"`

	// CleanerInterval is how often expired sessions are purged.
	CleanerInterval time.Duration `json:"-" envconfig:"CLEANER_INTERVAL"`

	// Config is the path to the JSON config file.
	Config string `json:"-" envconfig:"CONFIG"`
}

// ParseClient parses args (without the program name) into ClientOptions.
func ParseClient(args []string) (*ClientOptions, error) {
	opts := &ClientOptions{}
	var restricted string

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.StringVar(&opts.BaseURL, "url", "http://localhost:8082/api/v1", "backend base URL")
	fs.StringVar(&opts.SessionFile, "session", "session.json", "path to the session file")
	fs.StringVar(&opts.CAFile, "ca", "", "path to a CA bundle for an HTTPS backend")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&opts.LogFile, "log-file", "storefront.log", "log output path")
	fs.IntVar(&opts.PageSize, "page-size", 12, "products per page")
	fs.DurationVar(&opts.SearchDebounce, "debounce", 500*time.Millisecond, "search quiet interval")
	fs.DurationVar(&opts.RequestTimeout, "timeout", 10*time.Second, "backend request timeout")
	fs.StringVar(&restricted, "restricted", strings.Join(DefaultRestrictedProducts, ","), "comma separated product ids with a quantity cap")
	fs.IntVar(&opts.RestrictedMaxQty, "restricted-max", 5, "quantity cap for restricted products")
	fs.StringVar(&opts.Config, "config", "", "path to config file")
	fs.StringVar(&opts.Config, "c", "", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.RestrictedProducts = splitList(restricted)

	if err := overlay(opts, &opts.Config); err != nil {
		return nil, err
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseServer parses args (without the program name) into ServerOptions.
func ParseServer(args []string) (*ServerOptions, error) {
	opts := &ServerOptions{}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&opts.Port, "a", "localhost:8082", "run on ip:port server")
	fs.StringVar(&opts.DatabaseDSN, "d", "", "db address (empty = in-memory)")
	fs.StringVar(&opts.LogLevel, "log-level", "info", "log level")
	fs.BoolVar(&opts.Seed, "seed", true, "load the demo catalog and user")
	fs.StringVar(&opts.TLSCert, "tls-cert", "", "TLS certificate path")
	fs.StringVar(&opts.TLSKey, "tls-key", "", "TLS key path")
	fs.DurationVar(&opts.SessionTTL, "session-ttl", 24*time.Hour, "login token lifetime")
	fs.DurationVar(&opts.CleanerInterval, "cleaner-interval", time.Hour, "expired session purge interval")
	fs.StringVar(&opts.Config, "config", "", "path to config file")
	fs.StringVar(&opts.Config, "c", "", "path to config file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := overlay(opts, &opts.Config); err != nil {
		return nil, err
	}
	if opts.Port == "" {
		return nil, errors.New("server address is required")
	}
	return opts, nil
}

// overlay applies the config file and environment on top of flag values.
// configPath is re-read after the environment pass of CONFIG is resolved.
func overlay(opts any, configPath *string) error {
	// Missing .env is the common case.
	_ = godotenv.Load()

	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		*configPath = p
	}

	if *configPath != "" {
		if _, err := os.Stat(*configPath); err == nil {
			data, err := os.ReadFile(*configPath)
			if err != nil {
				return fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, opts); err != nil {
				return fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, opts); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

func (o *ClientOptions) validate() error {
	if o.BaseURL == "" {
		return errors.New("backend base URL is required")
	}
	if o.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", o.PageSize)
	}
	if o.SearchDebounce < 0 {
		return fmt.Errorf("search debounce must not be negative, got %s", o.SearchDebounce)
	}
	o.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
