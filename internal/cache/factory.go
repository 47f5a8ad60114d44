package cache

import (
	"context"
	"fmt"

	"github.com/praxisllmlab/dongchaLLM/internal/config"
)

// NewFromConfig creates a Store from cache config parameters.
// Supported types: memory, redis.
func NewFromConfig(ctx context.Context, params config.CacheParams) (Store, error) {
	ttl := params.TTL()
	switch params.Type {
	case "redis":
		client, err := NewRedisClient(ctx, params.Password)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return NewRedisCache(client, ttl), nil

	case "memory", "":
		return NewLRUCache(params.MaxSize, ttl), nil

	default:
		return nil, fmt.Errorf("unknown cache type: %s", params.Type)
	}
}
