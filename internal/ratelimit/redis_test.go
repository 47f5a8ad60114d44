package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLimiter(t *testing.T, maxRequests int, window time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisLimiter(rdb, maxRequests, window), mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	l, _ := setupRedisLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "caller-1")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "caller-1")
	require.NoError(t, err)
	assert.False(t, d.Allowed, "request 4 should be denied")
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)
}

func TestRedisLimiter_CallersAreIsolated(t *testing.T) {
	l, _ := setupRedisLimiter(t, 1, time.Minute)
	ctx := context.Background()

	d, err := l.Allow(ctx, "caller-1")
	require.NoError(t, err)
	require.True(t, d.Allowed)

	d, err = l.Allow(ctx, "caller-1")
	require.NoError(t, err)
	require.False(t, d.Allowed)

	d, err = l.Allow(ctx, "caller-2")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "caller-2 has its own window")
}

func TestRedisLimiter_FailsOpenWhenBackendDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(rdb, 1, time.Minute)

	mr.Close()

	d, err := l.Allow(context.Background(), "caller-1")
	assert.Error(t, err)
	assert.True(t, d.Allowed, "backend failure must not block requests")
}

func TestRedisLimiter_KeyPerCaller(t *testing.T) {
	l, mr := setupRedisLimiter(t, 5, time.Minute)

	_, err := l.Allow(context.Background(), "team-alpha")
	require.NoError(t, err)

	assert.True(t, mr.Exists("dongcha:rl:team-alpha"))
}
