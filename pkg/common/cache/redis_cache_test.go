package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmesh/graphmesh/pkg/common/cache"
)

func newRedisCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	c := cache.NewRedisCacheFromClient(client)
	t.Cleanup(func() { _ = c.Close() })
	return c, server
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "attempts", 3, time.Minute))

	var got int
	require.NoError(t, c.Get(ctx, "attempts", &got))
	assert.Equal(t, 3, got)

	exists, err := c.Exists(ctx, "attempts")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisCacheMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t)

	var got int
	assert.ErrorIs(t, c.Get(ctx, "absent", &got), cache.ErrNotFound)
}

func TestRedisCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, server := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "ephemeral", true, time.Second))
	server.FastForward(2 * time.Second)

	var got bool
	assert.ErrorIs(t, c.Get(ctx, "ephemeral", &got), cache.ErrNotFound)
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "key", &got), cache.ErrNotFound)
}

func TestRedisCacheFlush(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t)

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Flush(ctx))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "key", &got), cache.ErrNotFound)
}
