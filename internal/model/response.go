package model

import "encoding/json"

// Sentiment labels a provider may attach to an analysis.
const (
	SentimentBullish = "bullish"
	SentimentBearish = "bearish"
	SentimentNeutral = "neutral"
)

// AnalysisResponse is the unified result produced by a provider and
// consumed by the quality validator.
type AnalysisResponse struct {
	ID           string          `json:"id"`
	Summary      string          `json:"summary"`
	ImpactPoints []string        `json:"impact_points"`
	Sentiment    string          `json:"sentiment,omitempty"`
	Confidence   float64         `json:"confidence"`
	Provider     string          `json:"provider"`
	Raw          json.RawMessage `json:"-"`
}

// Clone returns a deep copy. The validator's Fix path works on a copy
// so the original attempt payload stays untouched.
func (r *AnalysisResponse) Clone() *AnalysisResponse {
	cp := *r
	cp.ImpactPoints = make([]string, len(r.ImpactPoints))
	copy(cp.ImpactPoints, r.ImpactPoints)
	return &cp
}

// HealthStatus is the result of a single provider health probe.
// Transient, never persisted.
type HealthStatus struct {
	Healthy   bool    `json:"healthy"`
	LatencyMS float64 `json:"latency_ms"`
	Error     string  `json:"error,omitempty"`
}

// QualityScore is the validator's judgment of a single response.
// Computed fresh per response, never persisted.
type QualityScore struct {
	Score      float64  `json:"score"`
	Issues     []string `json:"issues"`
	Valid      bool     `json:"is_valid"`
	Confidence float64  `json:"confidence"`
}
