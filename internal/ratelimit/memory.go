package ratelimit

import (
	"context"
	"sync"
	"time"
)

// window holds the recent request timestamps for one caller.
// Its own mutex makes the prune-then-decide sequence atomic per
// caller: two concurrent requests from the same caller can never both
// take the last remaining slot.
type window struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// MemoryLimiter is an in-process sliding-window limiter keyed by caller.
type MemoryLimiter struct {
	mu          sync.RWMutex
	windows     map[string]*window
	maxRequests int
	windowSize  time.Duration

	now func() time.Time // injectable for tests
}

// NewMemoryLimiter creates a limiter admitting maxRequests per caller
// within any trailing windowSize interval.
func NewMemoryLimiter(maxRequests int, windowSize time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		windows:     make(map[string]*window),
		maxRequests: maxRequests,
		windowSize:  windowSize,
		now:         time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, callerID string) (Decision, error) {
	w := l.callerWindow(callerID)

	w.mu.Lock()
	defer w.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.windowSize)

	// Prune lazily: after this loop nothing older than the window remains.
	kept := w.timestamps[:0]
	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	w.timestamps = kept

	if len(w.timestamps) >= l.maxRequests {
		oldest := w.timestamps[0]
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: l.windowSize - now.Sub(oldest),
		}, nil
	}

	w.timestamps = append(w.timestamps, now)
	return Decision{
		Allowed:   true,
		Remaining: l.maxRequests - len(w.timestamps),
	}, nil
}

func (l *MemoryLimiter) callerWindow(callerID string) *window {
	l.mu.RLock()
	w, ok := l.windows[callerID]
	l.mu.RUnlock()
	if ok {
		return w
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if w, ok = l.windows[callerID]; ok {
		return w
	}
	w = &window{}
	l.windows[callerID] = w
	return w
}
