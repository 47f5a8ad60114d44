package provider

import (
	"context"

	"github.com/praxisllmlab/dongchaLLM/internal/model"
)

// Provider defines the interface that all upstream analysis providers
// must implement.
type Provider interface {
	// Name returns the configured display name of this provider instance.
	Name() string

	// Analyze performs exactly one outbound call and normalizes the
	// provider-native response into an AnalysisResponse. Only transport
	// failures (timeout, connection error, non-2xx) are returned as
	// errors; a missing or malformed structured block yields a
	// best-effort response with lowered confidence instead.
	Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResponse, error)

	// HealthCheck probes the upstream service.
	HealthCheck(ctx context.Context) model.HealthStatus
}

// Spec carries the per-instance configuration a factory needs to
// construct a Provider. Built once at startup from the config file.
type Spec struct {
	Name        string
	Model       string
	APIKey      string
	APIBase     string
	Temperature float64
	MaxTokens   int
	Marker      string
}
