package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCache(rdb, ttl), mr
}

func TestRedisCache_SetAndGet(t *testing.T) {
	c, _ := setupRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "dongcha:analysis:abc", []byte(`{"summary":"test"}`)))

	val, ok := c.Get(ctx, "dongcha:analysis:abc")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"summary":"test"}`), val)
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := setupRedisCache(t, time.Minute)

	val, ok := c.Get(context.Background(), "missing")
	assert.False(t, ok)
	assert.Nil(t, val)

	stats := c.Stats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c, mr := setupRedisCache(t, time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))

	mr.FastForward(2 * time.Second)

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := setupRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, c.Delete(ctx, "k1"))

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)
}

func TestRedisCache_Stats(t *testing.T) {
	c, _ := setupRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	c.Get(ctx, "k1")

	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
}
