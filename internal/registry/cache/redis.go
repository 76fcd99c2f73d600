package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"zenith/internal/registry/models"
	"zenith/pkg/platform/sentinel"
)

var takenReadDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "zenith_taken_cache_redis_read_duration_ms",
	Help:    "Latency of taken-region cache reads from Redis in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

const (
	// takenSetKey holds region names; takenMarkerKey exists while the set is
	// fresh so an empty taken set can still be cached.
	takenSetKey    = "zenith:taken:regions"
	takenMarkerKey = "zenith:taken:fresh"
)

// RedisCache shares the taken set between server instances.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

type RedisOption func(*RedisCache)

// WithKeyPrefix namespaces keys, e.g. per registry deployment.
func WithKeyPrefix(prefix string) RedisOption {
	return func(c *RedisCache) {
		c.prefix = prefix
	}
}

func NewRedisCache(client *redis.Client, ttl time.Duration, opts ...RedisOption) *RedisCache {
	c := &RedisCache{client: client, ttl: ttl}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context) (models.TakenSet, error) {
	start := time.Now()
	defer func() {
		takenReadDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	pipe := c.client.Pipeline()
	fresh := pipe.Exists(ctx, c.key(takenMarkerKey))
	members := pipe.SMembers(ctx, c.key(takenSetKey))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("read taken set: %w", err)
	}
	if fresh.Val() == 0 {
		return nil, sentinel.ErrNotFound
	}
	return models.NewTakenSet(members.Val()...), nil
}

// Set replaces the cached set atomically.
func (c *RedisCache) Set(ctx context.Context, taken models.TakenSet) error {
	names := taken.Names()
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key(takenSetKey))
		if len(names) > 0 {
			members := make([]any, len(names))
			for i, n := range names {
				members[i] = n
			}
			pipe.SAdd(ctx, c.key(takenSetKey), members...)
			pipe.Expire(ctx, c.key(takenSetKey), c.ttl)
		}
		pipe.Set(ctx, c.key(takenMarkerKey), "1", c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write taken set: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key(takenMarkerKey), c.key(takenSetKey)).Err(); err != nil {
		return fmt.Errorf("invalidate taken set: %w", err)
	}
	return nil
}

func (c *RedisCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}
