package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/praxisllmlab/dongchaLLM/internal/model"
	"github.com/praxisllmlab/dongchaLLM/internal/provider"
)

const healthProbeTimeout = 5 * time.Second

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// HealthLiveness handles GET /health/liveness.
func (h *Handlers) HealthLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "alive",
	})
}

// HealthProviders handles GET /health/providers. Every provider in
// the chain is probed concurrently under a short timeout.
func (h *Handlers) HealthProviders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	statuses := make(map[string]model.HealthStatus, len(h.Chain))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, at := range h.Chain {
		wg.Add(1)
		go func(p provider.Provider) {
			defer wg.Done()
			status := p.HealthCheck(ctx)
			mu.Lock()
			statuses[p.Name()] = status
			mu.Unlock()
		}(at.Provider)
	}
	wg.Wait()

	writeJSON(w, http.StatusOK, statuses)
}
