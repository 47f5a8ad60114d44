package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// promExporter mirrors collector records into the default Prometheus
// registry.
type promExporter struct {
	attemptLatency *prometheus.HistogramVec
	attemptCounter *prometheus.CounterVec
}

var (
	promOnce     sync.Once
	promInstance *promExporter
)

// newPromExporter registers the standard metrics once per process.
func newPromExporter() *promExporter {
	promOnce.Do(func() {
		promInstance = &promExporter{
			attemptLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "dongcha_attempt_latency_seconds",
				Help:    "Provider attempt latency",
				Buckets: prometheus.DefBuckets,
			}, []string{"provider"}),

			attemptCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "dongcha_attempts_total",
				Help: "Total provider attempts by outcome",
			}, []string{"provider", "outcome"}),
		}

		prometheus.MustRegister(
			promInstance.attemptLatency,
			promInstance.attemptCounter,
		)
	})
	return promInstance
}

func (p *promExporter) record(providerName string, outcome Outcome, latency time.Duration) {
	p.attemptLatency.With(prometheus.Labels{"provider": providerName}).Observe(latency.Seconds())
	p.attemptCounter.With(prometheus.Labels{
		"provider": providerName,
		"outcome":  string(outcome),
	}).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
