package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/client/session"
	"github.com/atinyakov/storefront/internal/models"
)

type mockBackend struct {
	LoginFunc func(ctx context.Context, username, password string) (*models.LoginResponse, error)
	calls     int
}

func (m *mockBackend) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	m.calls++
	return m.LoginFunc(ctx, username, password)
}

type failingStore struct{ session.MemoryStore }

func (f *failingStore) Set(models.Session) error { return errors.New("disk full") }
func (f *failingStore) Clear() error             { return errors.New("read-only") }

func TestLogin_Success(t *testing.T) {
	backend := &mockBackend{LoginFunc: func(_ context.Context, u, p string) (*models.LoginResponse, error) {
		assert.Equal(t, "crio.do", u)
		assert.Equal(t, "learnbydoing", p)
		return &models.LoginResponse{Success: true, Token: "tok1", Username: "crio.do", Balance: 5000}, nil
	}}
	store := &session.MemoryStore{}
	rec := &notify.Recorder{}

	ok := NewService(backend, store, rec, nil).Login(context.Background(), "crio.do", "learnbydoing")

	require.True(t, ok)
	got := store.Get()
	assert.Equal(t, "tok1", got.Token)
	assert.Equal(t, "crio.do", got.Username)
	require.NotNil(t, got.Balance)
	assert.Equal(t, 5000.0, *got.Balance)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: MsgLoggedIn}}, rec.All())
}

func TestLogin_ValidationSkipsBackend(t *testing.T) {
	tests := []struct {
		name, username, password, want string
	}{
		{name: "no username", password: "x", want: MsgUsernameRequired},
		{name: "no password", username: "crio.do", want: MsgPasswordRequired},
		{name: "neither", want: MsgUsernameRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{}
			rec := &notify.Recorder{}

			ok := NewService(backend, &session.MemoryStore{}, rec, nil).Login(context.Background(), tt.username, tt.password)

			assert.False(t, ok)
			assert.Zero(t, backend.calls)
			assert.Equal(t, []notify.Notification{{Level: notify.LevelWarning, Message: tt.want}}, rec.All())
		})
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "bad password", err: &api.Error{Kind: api.KindRejected, Status: 400, Message: "Password is incorrect"}, want: "Password is incorrect"},
		{name: "server error", err: &api.Error{Kind: api.KindFault, Status: 500, Message: "boom"}, want: notify.MsgLoginUnavailable},
		{name: "unreachable", err: &api.Error{Kind: api.KindFault, Err: errors.New("dial tcp")}, want: notify.MsgLoginUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mockBackend{LoginFunc: func(context.Context, string, string) (*models.LoginResponse, error) {
				return nil, tt.err
			}}
			store := &session.MemoryStore{}
			rec := &notify.Recorder{}

			ok := NewService(backend, store, rec, nil).Login(context.Background(), "crio.do", "wrong")

			assert.False(t, ok)
			assert.True(t, store.Get().Anonymous())
			assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Message: tt.want}}, rec.All())
		})
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	backend := &mockBackend{LoginFunc: func(context.Context, string, string) (*models.LoginResponse, error) {
		return &models.LoginResponse{Success: true, Token: "tok1", Username: "crio.do"}, nil
	}}
	rec := &notify.Recorder{}

	ok := NewService(backend, &failingStore{}, rec, nil).Login(context.Background(), "crio.do", "learnbydoing")

	assert.False(t, ok)
	last, _ := rec.Last()
	assert.Equal(t, notify.LevelError, last.Level)
}

func TestLogout(t *testing.T) {
	store := &session.MemoryStore{}
	balance := 10.0
	require.NoError(t, store.Set(models.Session{Token: "tok1", Username: "crio.do", Balance: &balance}))
	svc := NewService(&mockBackend{}, store, &notify.Recorder{}, nil)

	require.NoError(t, svc.Logout())
	assert.Equal(t, models.Session{}, svc.Current())

	assert.Error(t, NewService(&mockBackend{}, &failingStore{}, &notify.Recorder{}, nil).Logout())
}
