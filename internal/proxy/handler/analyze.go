package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/praxisllmlab/dongchaLLM/internal/model"
)

// analyzeResponse is the caller-facing result shape.
type analyzeResponse struct {
	ID           string   `json:"id"`
	SummaryText  string   `json:"summary_text"`
	ImpactPoints []string `json:"impact_points"`
	Sentiment    string   `json:"sentiment,omitempty"`
	Confidence   float64  `json:"confidence"`
	Provider     string   `json:"provider"`
	Cached       bool     `json:"cached,omitempty"`
	Degraded     bool     `json:"degraded,omitempty"`
}

// Analyze handles POST /v1/analyze.
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var req model.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{
				Message: "invalid request body: " + err.Error(),
				Type:    "invalid_request_error",
			},
		})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{
				Message: "text is required",
				Type:    "invalid_request_error",
			},
		})
		return
	}
	if maxLen := h.Config.GeneralSettings.MaxTextLen; len(req.Text) > maxLen {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{
				Message: fmt.Sprintf("text exceeds maximum length of %d characters", maxLen),
				Type:    "invalid_request_error",
			},
		})
		return
	}
	if req.CallerID == "" {
		req.CallerID = r.RemoteAddr
	}

	result, err := h.Orchestrator.Analyze(r.Context(), &req)
	if err != nil {
		// Only caller cancellation reaches here; the client is gone.
		if errors.Is(err, r.Context().Err()) {
			return
		}
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error: model.ErrorDetail{
				Message: err.Error(),
				Type:    "internal_error",
			},
		})
		return
	}

	if result.RateLimited {
		retryAfter := int(math.Ceil(result.Decision.RetryAfter.Seconds()))
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		writeJSON(w, http.StatusTooManyRequests, model.ErrorResponse{
			Error: model.ErrorDetail{
				Message:    "rate limit exceeded",
				Type:       "rate_limit_exceeded",
				Code:       "rate_limit_exceeded",
				RetryAfter: retryAfter,
				Remaining:  result.Decision.Remaining,
			},
		})
		return
	}

	if result.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	}

	resp := result.Response
	writeJSON(w, http.StatusOK, analyzeResponse{
		ID:           resp.ID,
		SummaryText:  resp.Summary,
		ImpactPoints: resp.ImpactPoints,
		Sentiment:    resp.Sentiment,
		Confidence:   resp.Confidence,
		Provider:     resp.Provider,
		Cached:       result.CacheHit,
		Degraded:     result.Exhausted,
	})
}
