package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Store using go-redis v9. TTL expiry is
// delegated to Redis; entry-count bounding is delegated to the
// server's maxmemory policy. Hit/miss counters are kept locally.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		r.misses.Add(1)
		return nil, false
	}
	r.hits.Add(1)
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, r.ttl).Err()
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *RedisCache) Stats() Stats {
	size := 0
	if n, err := r.client.DBSize(context.Background()).Result(); err == nil {
		size = int(n)
	}
	return Stats{
		Size:   size,
		TTL:    r.ttl,
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
	}
}

// Client returns the underlying Redis client so other components
// (the rate limiter) can share the connection.
func (r *RedisCache) Client() redis.UniversalClient {
	return r.client
}
