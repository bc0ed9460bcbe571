package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/storefront/internal/client/api"
	"github.com/atinyakov/storefront/internal/client/notify"
	"github.com/atinyakov/storefront/internal/models"
)

type sourceFunc func(ctx context.Context, q string) ([]models.Product, error)

func (f sourceFunc) Search(ctx context.Context, q string) ([]models.Product, error) { return f(ctx, q) }

func TestSearcher_Search(t *testing.T) {
	phones := []models.Product{{ID: "P1", Name: "iPhone XR", Category: "Phones"}}

	tests := []struct {
		name      string
		query     string
		result    []models.Product
		err       error
		want      []models.Product
		outcome   Outcome
		wantNotes []notify.Notification
	}{
		{name: "matches", query: "phones", result: phones, want: phones, outcome: OutcomeResults},
		{name: "blank query", query: "  ", outcome: OutcomeCleared},
		{
			name:    "no matches is empty",
			query:   "zzz",
			err:     &api.Error{Kind: api.KindNotFound, Status: 404},
			want:    []models.Product{},
			outcome: OutcomeResults,
		},
		{
			name:      "server error shows its message",
			query:     "tv",
			err:       &api.Error{Kind: api.KindFault, Status: 500, Message: "Something went wrong"},
			outcome:   OutcomeFallback,
			wantNotes: []notify.Notification{{Level: notify.LevelError, Message: "Something went wrong"}},
		},
		{
			name:      "unreachable shows generic message",
			query:     "tv",
			err:       &api.Error{Kind: api.KindFault, Err: errors.New("connection refused")},
			outcome:   OutcomeFallback,
			wantNotes: []notify.Notification{{Level: notify.LevelError, Message: notify.MsgProductsUnavailable}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			src := sourceFunc(func(_ context.Context, q string) ([]models.Product, error) {
				calls++
				assert.Equal(t, tt.query, q)
				return tt.result, tt.err
			})
			rec := &notify.Recorder{}

			got, outcome := NewSearcher(src, rec).Search(context.Background(), tt.query)

			assert.Equal(t, tt.outcome, outcome, outcome.String())
			assert.Equal(t, tt.want, got)
			if tt.wantNotes == nil {
				assert.Empty(t, rec.All())
			} else {
				assert.Equal(t, tt.wantNotes, rec.All())
			}
			if tt.outcome == OutcomeCleared {
				assert.Zero(t, calls, "blank query must not hit the backend")
			} else {
				assert.Equal(t, 1, calls)
			}
		})
	}
}
