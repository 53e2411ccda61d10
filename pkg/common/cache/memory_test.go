package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmesh/graphmesh/pkg/common/cache"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(10, time.Minute)

	require.NoError(t, c.Set(ctx, "attempts", 3, time.Minute))

	var got int
	require.NoError(t, c.Get(ctx, "attempts", &got))
	assert.Equal(t, 3, got)

	exists, err := c.Exists(ctx, "attempts")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryCacheMiss(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(10, time.Minute)

	var got int
	assert.ErrorIs(t, c.Get(ctx, "absent", &got), cache.ErrNotFound)

	exists, err := c.Exists(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(10, time.Minute)

	require.NoError(t, c.Set(ctx, "ephemeral", true, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got bool
	assert.ErrorIs(t, c.Get(ctx, "ephemeral", &got), cache.ErrNotFound)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(10, time.Minute)

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Delete(ctx, "key"))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "key", &got), cache.ErrNotFound)
	assert.NoError(t, c.Delete(ctx, "key"))
}

func TestMemoryCacheCapacity(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(2, time.Minute)

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, 2*time.Minute))
	require.NoError(t, c.Set(ctx, "c", 3, 3*time.Minute))

	// The entry closest to expiry was evicted.
	var got int
	assert.ErrorIs(t, c.Get(ctx, "a", &got), cache.ErrNotFound)
	require.NoError(t, c.Get(ctx, "c", &got))
	assert.Equal(t, 3, got)
}

func TestMemoryCacheFlush(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryCache(10, time.Minute)

	require.NoError(t, c.Set(ctx, "key", "value", time.Minute))
	require.NoError(t, c.Flush(ctx))

	var got string
	assert.ErrorIs(t, c.Get(ctx, "key", &got), cache.ErrNotFound)
}
