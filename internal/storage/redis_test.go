package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMarkerCache(t *testing.T) *RedisMarkerCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisMarkerCache(client, time.Hour)
}

func TestRedisMarkerCache_Keys(t *testing.T) {
	cache := testMarkerCache(t)
	assert.Equal(t, "checkout:7", cache.CheckoutMarkerKey(7))
	assert.Equal(t, "review:42:7", cache.ReviewMarkerKey(42, 7))
}

func TestRedisMarkerCache_Roundtrip(t *testing.T) {
	cache := testMarkerCache(t)
	ctx := context.Background()
	key := cache.CheckoutMarkerKey(7)

	exists, err := cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.SetMarker(ctx, key))
	exists, err = cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.ClearMarker(ctx, key))
	exists, err = cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
