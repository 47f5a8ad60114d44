package handler

import (
	"encoding/json"
	"net/http"

	"github.com/praxisllmlab/dongchaLLM/internal/cache"
	"github.com/praxisllmlab/dongchaLLM/internal/config"
	"github.com/praxisllmlab/dongchaLLM/internal/metrics"
	"github.com/praxisllmlab/dongchaLLM/internal/orchestrator"
)

// Handlers holds all HTTP handler dependencies.
type Handlers struct {
	Config       *config.ServiceConfig
	Orchestrator *orchestrator.Orchestrator
	Cache        cache.Store
	Collector    *metrics.Collector
	Chain        []orchestrator.Attempt
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
