// Package cache stores the opportunistic taken-region read.
package cache

import (
	"context"
	"sync"
	"time"

	"zenith/internal/registry/models"
	"zenith/pkg/platform/sentinel"
)

// MemoryCache keeps one taken set in process for a fixed TTL.
type MemoryCache struct {
	mu       sync.RWMutex
	ttl      time.Duration
	now      func() time.Time
	taken    models.TakenSet
	storedAt time.Time
}

type MemoryOption func(*MemoryCache)

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(c *MemoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

func NewMemoryCache(ttl time.Duration, opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context) (models.TakenSet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.taken == nil || c.now().Sub(c.storedAt) >= c.ttl {
		return nil, sentinel.ErrNotFound
	}
	return c.taken.Merge(nil), nil
}

func (c *MemoryCache) Set(_ context.Context, taken models.TakenSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taken = taken.Merge(nil)
	c.storedAt = c.now()
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.taken = nil
	return nil
}
