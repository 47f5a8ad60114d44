package cache

import (
	"context"
	"time"
)

// Store defines the interface for response cache backends.
type Store interface {
	// Get returns the cached value for key, or false on a miss.
	// An expired entry is removed and reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key, replacing any existing entry.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Stats returns a point-in-time view of the cache.
	Stats() Stats
}

// Stats is a read-only snapshot of cache state.
type Stats struct {
	Size      int           `json:"size"`
	MaxSize   int           `json:"max_size"`
	TTL       time.Duration `json:"ttl_ns"`
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Evictions int64         `json:"evictions"`
}
