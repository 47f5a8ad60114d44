package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient creates a Redis client from environment variables.
// REDIS_URL takes precedence; otherwise REDIS_HOST/REDIS_PORT are used.
func NewRedisClient(ctx context.Context, password string) (redis.UniversalClient, error) {
	if url := os.Getenv("REDIS_URL"); url != "" {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return client, nil
	}

	host := envOr("REDIS_HOST", "localhost")
	port := envOr("REDIS_PORT", "6379")

	if password == "" {
		password = os.Getenv("REDIS_PASSWORD")
	}

	opts := &redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       envInt("REDIS_DB", 0),
	}
	if os.Getenv("REDIS_SSL") == "true" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
