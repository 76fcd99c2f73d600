package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenith/internal/registry/models"
	"zenith/pkg/platform/sentinel"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(30*time.Second, WithClock(func() time.Time { return now }))

	t.Run("miss before first set", func(t *testing.T) {
		_, err := c.Get(ctx)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("hit within ttl", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, models.NewTakenSet("Luxembourg")))
		now = now.Add(29 * time.Second)
		taken, err := c.Get(ctx)
		require.NoError(t, err)
		assert.True(t, taken.Has("Luxembourg"))
	})

	t.Run("returned set is a copy", func(t *testing.T) {
		taken, err := c.Get(ctx)
		require.NoError(t, err)
		taken["Chad"] = struct{}{}
		again, err := c.Get(ctx)
		require.NoError(t, err)
		assert.False(t, again.Has("Chad"))
	})

	t.Run("expires after ttl", func(t *testing.T) {
		now = now.Add(time.Second)
		_, err := c.Get(ctx)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("empty set is cacheable", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, models.NewTakenSet()))
		taken, err := c.Get(ctx)
		require.NoError(t, err)
		assert.Empty(t, taken)
	})

	t.Run("invalidate drops entry", func(t *testing.T) {
		require.NoError(t, c.Invalidate(ctx))
		_, err := c.Get(ctx)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
