package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_SetAndGet(t *testing.T) {
	c := NewLRUCache(10, time.Hour)
	ctx := context.Background()

	err := c.Set(ctx, "key1", []byte("value1"))
	require.NoError(t, err)

	val, ok := c.Get(ctx, "key1")
	require.True(t, ok)
	assert.Equal(t, []byte("value1"), val)
}

func TestLRUCache_GetMiss(t *testing.T) {
	c := NewLRUCache(10, time.Hour)

	val, ok := c.Get(context.Background(), "nonexistent")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	c := NewLRUCache(10, 50*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "key1", []byte("value1")))

	time.Sleep(100 * time.Millisecond)

	val, ok := c.Get(ctx, "key1")
	assert.False(t, ok)
	assert.Nil(t, val)

	// Expired entry is removed on the failed Get.
	assert.Equal(t, 0, c.Stats().Size)
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache(2, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, c.Set(ctx, "k2", []byte("v2")))
	require.NoError(t, c.Set(ctx, "k3", []byte("v3")))

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok, "k1 should have been evicted")
	_, ok = c.Get(ctx, "k2")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "k3")
	assert.True(t, ok)
}

func TestLRUCache_GetPromotesRecency(t *testing.T) {
	c := NewLRUCache(2, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, c.Set(ctx, "k2", []byte("v2")))

	// Touch k1 so k2 becomes the eviction victim.
	_, ok := c.Get(ctx, "k1")
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "k3", []byte("v3")))

	_, ok = c.Get(ctx, "k1")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "k2")
	assert.False(t, ok, "k2 should have been evicted")
}

func TestLRUCache_SetReplacesExisting(t *testing.T) {
	c := NewLRUCache(2, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("old")))
	require.NoError(t, c.Set(ctx, "k1", []byte("new")))

	val, ok := c.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), val)
	assert.Equal(t, 1, c.Stats().Size)
}

func TestLRUCache_SizeNeverExceedsMax(t *testing.T) {
	c := NewLRUCache(5, time.Hour)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")))
		assert.LessOrEqual(t, c.Stats().Size, 5)
	}
	assert.Equal(t, int64(15), c.Stats().Evictions)
}

func TestLRUCache_NonPositiveMaxSizeIsUnbounded(t *testing.T) {
	ctx := context.Background()

	for _, maxSize := range []int{0, -1} {
		c := NewLRUCache(maxSize, time.Hour)
		for i := 0; i < 10; i++ {
			require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v")))
		}

		assert.Equal(t, 10, c.Stats().Size, "maxSize=%d", maxSize)
		assert.Zero(t, c.Stats().Evictions, "maxSize=%d", maxSize)

		val, ok := c.Get(ctx, "k0")
		require.True(t, ok)
		assert.Equal(t, []byte("v"), val)
	}
}

func TestLRUCache_Concurrent(t *testing.T) {
	const maxSize = 8
	c := NewLRUCache(maxSize, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", (n+j)%12)
				switch j % 3 {
				case 0:
					_ = c.Set(ctx, key, []byte("v"))
				case 1:
					c.Get(ctx, key)
				default:
					_ = c.Delete(ctx, key)
				}
			}
		}(i)
	}
	wg.Wait()

	stats := c.Stats()
	assert.LessOrEqual(t, stats.Size, maxSize)

	// The cache is still coherent afterwards.
	require.NoError(t, c.Set(ctx, "after", []byte("ok")))
	val, ok := c.Get(ctx, "after")
	require.True(t, ok)
	assert.Equal(t, []byte("ok"), val)
}

func TestLRUCache_Delete(t *testing.T) {
	c := NewLRUCache(10, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, c.Delete(ctx, "k1"))

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)

	// Deleting a missing key is a no-op.
	assert.NoError(t, c.Delete(ctx, "nonexistent"))
}

func TestLRUCache_Stats(t *testing.T) {
	c := NewLRUCache(10, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k1", []byte("v1")))
	c.Get(ctx, "k1")
	c.Get(ctx, "missing")

	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, 10, stats.MaxSize)
	assert.Equal(t, time.Minute, stats.TTL)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
