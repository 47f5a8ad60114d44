package metrics

import (
	"sync"
	"time"
)

// Outcome classifies a single provider attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
	OutcomeTimeout Outcome = "timeout"
	// OutcomeRejected marks attempts that succeeded at the transport
	// level but failed quality validation, kept distinct from errors so
	// operators can tell "providers are down" from "providers are
	// answering badly".
	OutcomeRejected Outcome = "rejected"
)

type providerCounters struct {
	Requests     int64
	Successes    int64
	Errors       int64
	Timeouts     int64
	Rejections   int64
	TotalLatency time.Duration
}

// Collector accumulates per-provider attempt counters. Purely
// additive: derived values (success rate, average latency) are
// computed on read so there is no second source of truth to drift.
type Collector struct {
	mu        sync.Mutex
	providers map[string]*providerCounters
	updatedAt time.Time

	prom *promExporter // optional
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{providers: make(map[string]*providerCounters)}
}

// NewCollectorWithPrometheus creates a Collector that mirrors every
// Record into the process Prometheus registry.
func NewCollectorWithPrometheus() *Collector {
	c := NewCollector()
	c.prom = newPromExporter()
	return c
}

// Record adds one attempt outcome for a provider.
func (c *Collector) Record(providerName string, outcome Outcome, latency time.Duration) {
	c.mu.Lock()
	pc, ok := c.providers[providerName]
	if !ok {
		pc = &providerCounters{}
		c.providers[providerName] = pc
	}
	pc.Requests++
	pc.TotalLatency += latency
	switch outcome {
	case OutcomeSuccess:
		pc.Successes++
	case OutcomeTimeout:
		pc.Timeouts++
	case OutcomeRejected:
		pc.Rejections++
	default:
		pc.Errors++
	}
	c.updatedAt = time.Now()
	c.mu.Unlock()

	if c.prom != nil {
		c.prom.record(providerName, outcome, latency)
	}
}

// ProviderStats is the exported per-provider view.
type ProviderStats struct {
	Requests     int64   `json:"requests"`
	Successes    int64   `json:"successes"`
	Errors       int64   `json:"errors"`
	Timeouts     int64   `json:"timeouts"`
	Rejections   int64   `json:"rejections"`
	AvgLatencyMS float64 `json:"avg_latency_ms"`
}

// Snapshot is a read-only copy of all counters plus derived totals.
type Snapshot struct {
	Providers   map[string]ProviderStats `json:"providers"`
	Totals      ProviderStats            `json:"totals"`
	SuccessRate float64                  `json:"success_rate"`
	LastUpdated time.Time                `json:"last_updated"`
}

// Snapshot computes the current view. Rates and averages come from
// the raw counters at read time.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Providers:   make(map[string]ProviderStats, len(c.providers)),
		LastUpdated: c.updatedAt,
	}

	var totalLatency time.Duration
	for name, pc := range c.providers {
		stats := ProviderStats{
			Requests:   pc.Requests,
			Successes:  pc.Successes,
			Errors:     pc.Errors,
			Timeouts:   pc.Timeouts,
			Rejections: pc.Rejections,
		}
		if pc.Requests > 0 {
			stats.AvgLatencyMS = float64(pc.TotalLatency.Microseconds()) / 1000 / float64(pc.Requests)
		}
		snap.Providers[name] = stats

		snap.Totals.Requests += pc.Requests
		snap.Totals.Successes += pc.Successes
		snap.Totals.Errors += pc.Errors
		snap.Totals.Timeouts += pc.Timeouts
		snap.Totals.Rejections += pc.Rejections
		totalLatency += pc.TotalLatency
	}

	if snap.Totals.Requests > 0 {
		snap.Totals.AvgLatencyMS = float64(totalLatency.Microseconds()) / 1000 / float64(snap.Totals.Requests)
		snap.SuccessRate = float64(snap.Totals.Successes) / float64(snap.Totals.Requests)
	}
	return snap
}
