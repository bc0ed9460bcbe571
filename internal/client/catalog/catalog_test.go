package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/models"
)

type sourceFunc func(ctx context.Context) ([]models.Product, error)

func (f sourceFunc) Products(ctx context.Context) ([]models.Product, error) { return f(ctx) }

func products(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{ID: fmt.Sprintf("P%d", i+1)}
	}
	return out
}

func ids(ps []models.Product) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFetchAll(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantLen  int
		wantNote []notify.Notification
	}{
		{name: "success", wantLen: 3},
		{
			name:     "server error with message",
			err:      &api.Error{Kind: api.KindFault, Status: 500, Message: "Something went wrong. Check the backend console for more details"},
			wantNote: []notify.Notification{{Level: notify.LevelError, Message: "Something went wrong. Check the backend console for more details"}},
		},
		{
			name:     "unreachable",
			err:      &api.Error{Kind: api.KindFault, Err: errors.New("dial tcp")},
			wantNote: []notify.Notification{{Level: notify.LevelError, Message: notify.MsgProductsUnavailable}},
		},
		{
			name:     "rejected without 5xx uses generic message",
			err:      &api.Error{Kind: api.KindRejected, Status: 403, Message: "nope"},
			wantNote: []notify.Notification{{Level: notify.LevelError, Message: notify.MsgProductsUnavailable}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &notify.Recorder{}
			calls := 0
			f := NewFetcher(sourceFunc(func(context.Context) ([]models.Product, error) {
				calls++
				if tt.err != nil {
					return nil, tt.err
				}
				return products(3), nil
			}), rec)

			got := f.FetchAll(context.Background())
			assert.NotNil(t, got)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, 1, calls, "must not retry")
			if tt.wantNote == nil {
				assert.Empty(t, rec.All())
			} else {
				assert.Equal(t, tt.wantNote, rec.All())
			}
		})
	}
}

func TestPage(t *testing.T) {
	all := products(26)

	tests := []struct {
		name       string
		size, page int
		want       []string
	}{
		{name: "first page", size: 12, page: 1, want: ids(all[0:12])},
		{name: "second page", size: 12, page: 2, want: ids(all[12:24])},
		{name: "last partial page", size: 12, page: 3, want: []string{"P25", "P26"}},
		{name: "past the end", size: 12, page: 4, want: []string{}},
		{name: "page zero", size: 12, page: 0, want: []string{}},
		{name: "negative page", size: 12, page: -1, want: []string{}},
		{name: "zero size", size: 0, page: 1, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Page(all, tt.size, tt.page)))
		})
	}
}

func TestPage_OnlyLastPageIsShort(t *testing.T) {
	for total := 0; total <= 40; total++ {
		all := products(total)
		pages := PageCount(total, 12)
		for p := 1; p <= pages+1; p++ {
			got := Page(all, 12, p)
			switch {
			case p < pages:
				assert.Len(t, got, 12, "total=%d page=%d", total, p)
			case p == pages:
				assert.NotEmpty(t, got, "total=%d page=%d", total, p)
			default:
				assert.Empty(t, got, "total=%d page=%d", total, p)
			}
		}
	}
}

func TestPage_DoesNotAliasInput(t *testing.T) {
	all := products(3)
	got := Page(all, 2, 1)
	got[0].ID = "changed"
	assert.Equal(t, "P1", all[0].ID)
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 12))
	assert.Equal(t, 1, PageCount(12, 12))
	assert.Equal(t, 2, PageCount(13, 12))
	// rounding would give 2 here and hide the last 6 products
	assert.Equal(t, 3, PageCount(30, 12))
	assert.Equal(t, 0, PageCount(5, 0))
}
