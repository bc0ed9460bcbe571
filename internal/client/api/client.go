// Package api is the storefront's HTTP client for the catalog, cart and auth
// REST backend.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atinyakov/storefront/internal/models"
)

const (
	pathLogin    = "/auth/login"
	pathProducts = "/products"
	pathSearch   = "/products/search"
	pathCart     = "/cart"

	// HeaderRequestID correlates client and backend log lines.
	HeaderRequestID = "X-Request-ID"
)

// Config holds the settings for New.
type Config struct {
	BaseURL string
	// CAFile optionally adds a PEM bundle to the trusted roots.
	CAFile  string
	Timeout time.Duration
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// Client talks to the backend. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *zap.Logger
}

// New creates a Client with the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	transport := cfg.Transport
	if transport == nil && cfg.CAFile != "" {
		t, err := transportWithCA(cfg.CAFile)
		if err != nil {
			return nil, err
		}
		transport = t
	}

	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		log:        log,
	}, nil
}

// transportWithCA trusts the system roots plus the PEM bundle at caFile.
func transportWithCA(caFile string) (*http.Transport, error) {
	caCert, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA cert: %w", err)
	}
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA cert")
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	return t, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	req := models.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, pathLogin, "", req, &out); err != nil {
		return nil, err
	}
	if !out.Success || out.Token == "" {
		return nil, &Error{Kind: KindRejected, Status: http.StatusOK, Message: "login was not accepted"}
	}
	return &out, nil
}

// Products fetches the complete catalog.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.do(ctx, http.MethodGet, pathProducts, "", nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// Search queries the filtered endpoint. A 404 means no matches and yields an
// empty slice with a nil error.
func (c *Client) Search(ctx context.Context, query string) ([]models.Product, error) {
	var out []models.Product
	path := pathSearch + "?" + url.Values{"value": {query}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []models.Product{}, nil
		}
		return nil, err
	}
	return nonNil(out), nil
}

// Cart fetches the shopper's cart entries.
func (c *Client) Cart(ctx context.Context, token string) ([]models.CartEntry, error) {
	var out []models.CartEntry
	if err := c.do(ctx, http.MethodGet, pathCart, token, nil, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// UpsertCart sets the quantity of productID (0 removes it) and returns the
// full updated cart.
func (c *Client) UpsertCart(ctx context.Context, token, productID string, qty int) ([]models.CartEntry, error) {
	var out []models.CartEntry
	body := models.CartUpsertRequest{ProductID: productID, Quantity: qty}
	if err := c.do(ctx, http.MethodPost, pathCart, token, body, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindFault, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindFault, Err: fmt.Errorf("build request: %w", err)}
	}
	reqID := uuid.NewString()
	req.Header.Set(HeaderRequestID, reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := c.log.With(zap.String("method", method), zap.String("path", path), zap.String("request_id", reqID))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("backend unreachable", zap.Error(err))
		return &Error{Kind: KindFault, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Kind: kindFor(resp.StatusCode), Status: resp.StatusCode}
		var payload models.ErrorResponse
		if data, readErr := io.ReadAll(resp.Body); readErr == nil && json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Message
		}
		log.Info("backend returned error", zap.String("message", apiErr.Message))
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Warn("invalid response body", zap.Error(err))
			return &Error{Kind: KindFault, Status: resp.StatusCode, Err: fmt.Errorf("invalid response: %w", err)}
		}
	}
	log.Debug("backend call succeeded")
	return nil
}

func kindFor(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindRejected
	default:
		return KindFault
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
