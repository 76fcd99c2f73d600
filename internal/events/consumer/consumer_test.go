package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenith/internal/events"
	"zenith/internal/platform/kafka/consumer"
	"zenith/internal/platform/logger"
)

type countingCache struct {
	calls int
	err   error
}

func (c *countingCache) Invalidate(context.Context) error {
	c.calls++
	return c.err
}

func message(t *testing.T, topic string, ev events.Event) *consumer.Message {
	t.Helper()
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return &consumer.Message{Topic: topic, Key: []byte(ev.ClaimID.String()), Value: raw}
}

func TestRouter(t *testing.T) {
	var claims, other int
	claimHandler := consumer.HandlerFunc(func(context.Context, *consumer.Message) error { claims++; return nil })
	fallback := consumer.HandlerFunc(func(context.Context, *consumer.Message) error { other++; return nil })

	t.Run("dispatches by topic", func(t *testing.T) {
		r := NewRouter(logger.Discard(), nil)
		r.Register("zenith.claims", claimHandler)
		require.NoError(t, r.Handle(context.Background(), &consumer.Message{Topic: "zenith.claims"}))
		require.NoError(t, r.Handle(context.Background(), &consumer.Message{Topic: "unknown"}))
		assert.Equal(t, 1, claims)
	})

	t.Run("falls back for unregistered topics", func(t *testing.T) {
		r := NewRouter(logger.Discard(), fallback)
		require.NoError(t, r.Handle(context.Background(), &consumer.Message{Topic: "unknown"}))
		assert.Equal(t, 1, other)
	})
}

func TestInvalidationHandler(t *testing.T) {
	submitted := events.Event{ID: uuid.New(), Type: events.ClaimSubmitted, ClaimID: uuid.New(), Regions: []string{"Chad"}}

	tests := []struct {
		name      string
		msg       func(t *testing.T) *consumer.Message
		cacheErr  error
		wantCalls int
		wantErr   bool
	}{
		{
			name:      "claim with regions invalidates",
			msg:       func(t *testing.T) *consumer.Message { return message(t, "zenith.claims", submitted) },
			wantCalls: 1,
		},
		{
			name: "failed claim is ignored",
			msg: func(t *testing.T) *consumer.Message {
				ev := submitted
				ev.Type = events.ClaimFailed
				return message(t, "zenith.claims", ev)
			},
		},
		{
			name: "claim without regions is ignored",
			msg: func(t *testing.T) *consumer.Message {
				ev := submitted
				ev.Regions = nil
				return message(t, "zenith.claims", ev)
			},
		},
		{
			name: "malformed payload is skipped",
			msg: func(*testing.T) *consumer.Message {
				return &consumer.Message{Topic: "zenith.claims", Value: []byte("{not json")}
			},
		},
		{
			name:      "cache failure is returned",
			msg:       func(t *testing.T) *consumer.Message { return message(t, "zenith.claims", submitted) },
			cacheErr:  errors.New("redis down"),
			wantCalls: 1,
			wantErr:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := &countingCache{err: tt.cacheErr}
			h := NewInvalidationHandler(cache, logger.Discard())
			err := h.Handle(context.Background(), tt.msg(t))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, cache.calls)
		})
	}
}
