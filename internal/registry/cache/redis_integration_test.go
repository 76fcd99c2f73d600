//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"zenith/internal/registry/cache"
	"zenith/internal/registry/models"
	"zenith/pkg/platform/sentinel"
	"zenith/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.cache = cache.NewRedisCache(s.redis.Client.Client, time.Minute, cache.WithKeyPrefix("test"))
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.Flush(context.Background()))
}

func (s *RedisCacheSuite) TestHealth() {
	s.NoError(s.redis.Client.Health(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTrip() {
	ctx := context.Background()

	_, err := s.cache.Get(ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.cache.Set(ctx, models.NewTakenSet("Luxembourg", "Chad")))
	taken, err := s.cache.Get(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Chad", "Luxembourg"}, taken.Names())
}

func (s *RedisCacheSuite) TestSetReplacesPreviousSet() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, models.NewTakenSet("Luxembourg")))
	s.Require().NoError(s.cache.Set(ctx, models.NewTakenSet("Peru")))

	taken, err := s.cache.Get(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Peru"}, taken.Names())
}

func (s *RedisCacheSuite) TestEmptySetIsFresh() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, models.NewTakenSet()))

	taken, err := s.cache.Get(ctx)
	s.Require().NoError(err)
	s.Empty(taken)
}

func (s *RedisCacheSuite) TestInvalidate() {
	ctx := context.Background()
	s.Require().NoError(s.cache.Set(ctx, models.NewTakenSet("Chad")))
	s.Require().NoError(s.cache.Invalidate(ctx))

	_, err := s.cache.Get(ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisCacheSuite) TestExpiry() {
	ctx := context.Background()
	short := cache.NewRedisCache(s.redis.Client.Client, 500*time.Millisecond)
	s.Require().NoError(short.Set(ctx, models.NewTakenSet("Chad")))

	s.Eventually(func() bool {
		_, err := short.Get(ctx)
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}
