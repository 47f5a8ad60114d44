package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

type lruEntry struct {
	key        string
	data       []byte
	insertedAt time.Time
}

// LRUCache is an in-memory cache bounded by entry count and TTL.
// Eviction order is least-recently-used; a Get promotes the entry.
// A single mutex guards both the map and the recency list; Get
// mutates the list, so a read lock would not help.
type LRUCache struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // front = most recently used
	maxSize int
	ttl     time.Duration

	hits      int64
	misses    int64
	evictions int64
}

// NewLRUCache creates a cache holding at most maxSize entries, each
// valid for ttl after insertion. A non-positive maxSize means unbounded.
func NewLRUCache(maxSize int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		items:   make(map[string]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	entry := el.Value.(*lruEntry)
	if time.Since(entry.insertedAt) > c.ttl {
		c.removeElement(el)
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(el)
	c.hits++
	return entry.data, true
}

func (c *LRUCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		entry := el.Value.(*lruEntry)
		entry.data = value
		entry.insertedAt = time.Now()
		c.order.MoveToFront(el)
		return nil
	}

	for c.maxSize > 0 && len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	el := c.order.PushFront(&lruEntry{key: key, data: value, insertedAt: time.Now()})
	c.items[key] = el
	return nil
}

func (c *LRUCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
	return nil
}

func (c *LRUCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:      len(c.items),
		MaxSize:   c.maxSize,
		TTL:       c.ttl,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *LRUCache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	c.removeElement(el)
	c.evictions++
}

func (c *LRUCache) removeElement(el *list.Element) {
	entry := el.Value.(*lruEntry)
	delete(c.items, entry.key)
	c.order.Remove(el)
}
