package handler

import "net/http"

// CacheStats handles GET /v1/cache/stats.
func (h *Handlers) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats := h.Cache.Stats()
	writeJSON(w, http.StatusOK, map[string]any{
		"size":        stats.Size,
		"max_size":    stats.MaxSize,
		"ttl_seconds": int(stats.TTL.Seconds()),
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"evictions":   stats.Evictions,
	})
}

// MetricsSnapshot handles GET /v1/metrics. The same snapshot is also
// exported on the dedicated metrics port.
func (h *Handlers) MetricsSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Collector.Snapshot())
}
