package config

import "time"

// ServiceConfig represents the top-level dongcha_config.yaml structure.
type ServiceConfig struct {
	ProviderList         []ProviderConfig  `yaml:"provider_list"`
	DongchaSettings      DongchaSettings   `yaml:"dongcha_settings"`
	GeneralSettings      GeneralSettings   `yaml:"general_settings"`
	EnvironmentVariables map[string]string `yaml:"environment_variables,omitempty"`
}

// ProviderConfig represents a single entry in provider_list.
// Immutable for the process lifetime once loaded.
type ProviderConfig struct {
	ProviderName  string        `yaml:"provider_name"`
	DongchaParams DongchaParams `yaml:"dongcha_params"`
}

// DongchaParams holds provider-specific parameters for a provider entry.
type DongchaParams struct {
	Provider       string  `yaml:"provider"` // registry key: openai, groq, gemini, ...
	Model          string  `yaml:"model"`
	APIKey         *string `yaml:"api_key,omitempty"`
	APIBase        *string `yaml:"api_base,omitempty"`
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
	Priority       int     `yaml:"priority,omitempty"` // lower is tried first
	Temperature    float64 `yaml:"temperature,omitempty"`
	MaxTokens      int     `yaml:"max_tokens,omitempty"`
}

// Timeout returns the per-attempt timeout for this provider.
func (p *DongchaParams) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Key returns the resolved API key, or "" when not configured.
func (p *DongchaParams) Key() string {
	if p.APIKey != nil {
		return *p.APIKey
	}
	return ""
}

// Base returns the resolved API base URL, or "" when not configured.
func (p *DongchaParams) Base() string {
	if p.APIBase != nil {
		return *p.APIBase
	}
	return ""
}

// DongchaSettings holds global service behavior settings.
// Maps to dongcha_settings in dongcha_config.yaml.
type DongchaSettings struct {
	RateLimit RateLimitParams `yaml:"rate_limit"`
	Cache     CacheParams     `yaml:"cache"`
	Quality   QualityParams   `yaml:"quality"`

	// ExtractionMarker delimits the structured block inside provider
	// completions, e.g. "<analysis>...</analysis>".
	ExtractionMarker string `yaml:"extraction_marker,omitempty"`
}

// RateLimitParams configures per-caller sliding-window admission.
type RateLimitParams struct {
	MaxRequests   int `yaml:"max_requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

// Window returns the sliding window duration.
func (r RateLimitParams) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// CacheParams configures the response cache backend.
type CacheParams struct {
	Type       string `yaml:"type,omitempty"` // "memory" (default) or "redis"
	MaxSize    int    `yaml:"max_size,omitempty"`
	TTLSeconds int    `yaml:"ttl_seconds,omitempty"`
	Password   string `yaml:"password,omitempty"`
}

// TTL returns the cache entry time-to-live.
func (c CacheParams) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// QualityParams configures response validation thresholds.
// These are hand-tuned operational knobs, not invariants.
type QualityParams struct {
	MinScore        float64 `yaml:"min_score,omitempty"`
	MaxIssues       int     `yaml:"max_issues,omitempty"`
	MinImpactPoints int     `yaml:"min_impact_points,omitempty"`
	MaxImpactPoints int     `yaml:"max_impact_points,omitempty"`
	SummaryMinLen   int     `yaml:"summary_min_len,omitempty"`
	SummaryMaxLen   int     `yaml:"summary_max_len,omitempty"`
	PointMinLen     int     `yaml:"point_min_len,omitempty"`
	PointMaxLen     int     `yaml:"point_max_len,omitempty"`

	HedgingPhrases     []string `yaml:"hedging_phrases,omitempty"`
	SpecificityPhrases []string `yaml:"specificity_phrases,omitempty"`
	AllowedSentiments  []string `yaml:"allowed_sentiments,omitempty"`
}

// GeneralSettings holds service-level settings.
type GeneralSettings struct {
	MasterKey  string `yaml:"master_key,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	MaxTextLen int    `yaml:"max_text_len,omitempty"`
}
