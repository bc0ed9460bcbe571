package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/storefront/internal/models"
)

// roundTripperFunc makes it easy to stub the http.Client transport.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(t *testing.T, fn roundTripperFunc) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: "http://example.com/api/v1/", Transport: fn})
	require.NoError(t, err)
	return c
}

func jsonResponse(status int, body any) *http.Response {
	b, _ := json.Marshal(body)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_BadCAFile(t *testing.T) {
	_, err := New(Config{BaseURL: "https://x", CAFile: "/does/not/exist.pem"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read CA cert")
}

func TestLogin_Success(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "http://example.com/api/v1/auth/login", req.URL.String())
		assert.NotEmpty(t, req.Header.Get(HeaderRequestID))
		assert.Empty(t, req.Header.Get("Authorization"))

		var body models.LoginRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, models.LoginRequest{Username: "crio.do", Password: "learnbydoing"}, body)

		return jsonResponse(http.StatusCreated, models.LoginResponse{Success: true, Token: "tok1", Username: "crio.do", Balance: 5000}), nil
	})

	resp, err := c.Login(context.Background(), "crio.do", "learnbydoing")
	require.NoError(t, err)
	assert.Equal(t, "tok1", resp.Token)
	assert.Equal(t, 5000.0, resp.Balance)
}

func TestLogin_Rejected(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest, models.ErrorResponse{Message: "Password is incorrect"}), nil
	})

	_, err := c.Login(context.Background(), "crio.do", "wrong")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRejected))
	msg, ok := MessageOf(err)
	assert.True(t, ok)
	assert.Equal(t, "Password is incorrect", msg)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestLogin_SuccessFalse(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, map[string]any{"success": false}), nil
	})
	_, err := c.Login(context.Background(), "a", "b")
	assert.True(t, errors.Is(err, ErrRejected))
}

func TestProducts(t *testing.T) {
	stock := 3
	want := []models.Product{{ID: "P1", Name: "iPhone XR", Category: "Phones", Cost: 100, Rating: 4, Stock: &stock}}
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/v1/products", req.URL.Path)
		return jsonResponse(http.StatusOK, want), nil
	})

	got, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProducts_ServerError(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, models.ErrorResponse{Message: "Something went wrong"}), nil
	})

	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFault))
	assert.True(t, IsReachable(err))
	msg, _ := MessageOf(err)
	assert.Equal(t, "Something went wrong", msg)
}

func TestProducts_NetworkError(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})

	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFault))
	assert.False(t, IsReachable(err))
	assert.Contains(t, err.Error(), "request failed")
}

func TestProducts_InvalidJSON(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader("not-json"))}, nil
	})

	_, err := c.Products(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFault))
	assert.Contains(t, err.Error(), "invalid response")
}

func TestSearch_EncodesQueryAndMaps404(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/v1/products/search", req.URL.Path)
		assert.Equal(t, "zzz no&match", req.URL.Query().Get("value"))
		return jsonResponse(http.StatusNotFound, []any{}), nil
	})

	got, err := c.Search(context.Background(), "zzz no&match")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCart_SendsBearer(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer tok1", req.Header.Get("Authorization"))
		return jsonResponse(http.StatusOK, []models.CartEntry{{ProductID: "P1", Quantity: 2}}), nil
	})

	got, err := c.Cart(context.Background(), "tok1")
	require.NoError(t, err)
	assert.Equal(t, []models.CartEntry{{ProductID: "P1", Quantity: 2}}, got)
}

func TestCart_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, models.ErrorResponse{Message: "Protected route, Oauth2 Bearer token not found"}), nil
	})

	_, err := c.Cart(context.Background(), "")
	assert.True(t, errors.Is(err, ErrRejected))
}

func TestUpsertCart(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, map[string]any{"productId": "P1", "qty": float64(0)}, body)
		return jsonResponse(http.StatusOK, []models.CartEntry{}), nil
	})

	got, err := c.UpsertCart(context.Background(), "tok1", "P1", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertCart_UnknownProduct(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, models.ErrorResponse{Message: "Product doesn't exist"}), nil
	})

	_, err := c.UpsertCart(context.Background(), "tok1", "nope", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	msg, _ := MessageOf(err)
	assert.Equal(t, "Product doesn't exist", msg)
}

func TestErrorString(t *testing.T) {
	e := &Error{Kind: KindRejected, Status: 400, Message: "bad"}
	assert.Equal(t, "rejected by backend (status 400): bad", e.Error())
	assert.Equal(t, "backend fault (status 502)", (&Error{Kind: KindFault, Status: 502}).Error())
}
