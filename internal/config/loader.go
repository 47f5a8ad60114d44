package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a dongcha_config.yaml file and returns a ServiceConfig
// with all environment variables resolved and defaults applied.
func Load(path string) (*ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes raw YAML into a ServiceConfig, resolves env vars,
// applies defaults and validates.
func Parse(data []byte) (*ServiceConfig, error) {
	var cfg ServiceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvironmentVariables(&cfg)
	resolveEnvVars(&cfg)
	setDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnvironmentVariables sets OS env vars from the config's
// environment_variables section.
func applyEnvironmentVariables(cfg *ServiceConfig) {
	for k, v := range cfg.EnvironmentVariables {
		resolved := ResolveEnvVar(v)
		os.Setenv(k, resolved)
	}
}

func resolveEnvVars(cfg *ServiceConfig) {
	cfg.GeneralSettings.MasterKey = ResolveEnvVar(cfg.GeneralSettings.MasterKey)
	cfg.DongchaSettings.Cache.Password = ResolveEnvVar(cfg.DongchaSettings.Cache.Password)

	for i := range cfg.ProviderList {
		p := &cfg.ProviderList[i]
		p.DongchaParams.APIKey = ResolveEnvVarPtr(p.DongchaParams.APIKey)
		p.DongchaParams.APIBase = ResolveEnvVarPtr(p.DongchaParams.APIBase)
	}
}

func setDefaults(cfg *ServiceConfig) {
	if cfg.GeneralSettings.Port == 0 {
		cfg.GeneralSettings.Port = 4000
	}
	if cfg.GeneralSettings.MaxTextLen == 0 {
		cfg.GeneralSettings.MaxTextLen = 4000
	}

	rl := &cfg.DongchaSettings.RateLimit
	if rl.MaxRequests == 0 {
		rl.MaxRequests = 10
	}
	if rl.WindowSeconds == 0 {
		rl.WindowSeconds = 60
	}

	c := &cfg.DongchaSettings.Cache
	if c.Type == "" {
		c.Type = "memory"
	}
	if c.MaxSize == 0 {
		c.MaxSize = 1000
	}
	if c.TTLSeconds == 0 {
		c.TTLSeconds = 300
	}

	q := &cfg.DongchaSettings.Quality
	if q.MinScore == 0 {
		q.MinScore = 70
	}
	if q.MaxIssues == 0 {
		q.MaxIssues = 3
	}
	if q.MinImpactPoints == 0 {
		q.MinImpactPoints = 2
	}
	if q.MaxImpactPoints == 0 {
		q.MaxImpactPoints = 5
	}
	if q.SummaryMinLen == 0 {
		q.SummaryMinLen = 10
	}
	if q.SummaryMaxLen == 0 {
		q.SummaryMaxLen = 500
	}
	if q.PointMinLen == 0 {
		q.PointMinLen = 5
	}
	if q.PointMaxLen == 0 {
		q.PointMaxLen = 200
	}
	if len(q.HedgingPhrases) == 0 {
		q.HedgingPhrases = []string{
			"might possibly", "it is unclear", "hard to say",
			"cannot be determined", "who knows", "maybe",
		}
	}
	if len(q.SpecificityPhrases) == 0 {
		q.SpecificityPhrases = []string{
			"%", "billion", "million", "basis points", "quarter", "q1", "q2", "q3", "q4",
		}
	}
	if len(q.AllowedSentiments) == 0 {
		q.AllowedSentiments = []string{"bullish", "bearish", "neutral"}
	}

	if cfg.DongchaSettings.ExtractionMarker == "" {
		cfg.DongchaSettings.ExtractionMarker = "analysis"
	}

	for i := range cfg.ProviderList {
		p := &cfg.ProviderList[i].DongchaParams
		if p.TimeoutSeconds == 0 {
			p.TimeoutSeconds = 10
		}
		if p.MaxTokens == 0 {
			p.MaxTokens = 1024
		}
		if p.Priority == 0 {
			// Preserve list order when priorities are not set explicitly.
			p.Priority = i + 1
		}
	}
}

// Validate rejects configs that cannot produce a working service.
func Validate(cfg *ServiceConfig) error {
	if len(cfg.ProviderList) == 0 {
		return fmt.Errorf("provider_list is empty")
	}
	for i, p := range cfg.ProviderList {
		if p.ProviderName == "" {
			return fmt.Errorf("provider_list[%d]: provider_name is required", i)
		}
		if p.DongchaParams.Provider == "" {
			return fmt.Errorf("provider_list[%d](%s): dongcha_params.provider is required", i, p.ProviderName)
		}
	}

	switch cfg.DongchaSettings.Cache.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.type %q is not supported (memory, redis)", cfg.DongchaSettings.Cache.Type)
	}
	if cfg.DongchaSettings.Cache.MaxSize < 0 || cfg.DongchaSettings.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache max_size and ttl_seconds must be non-negative")
	}

	if cfg.DongchaSettings.RateLimit.MaxRequests < 0 || cfg.DongchaSettings.RateLimit.WindowSeconds < 0 {
		return fmt.Errorf("rate_limit values must be non-negative")
	}
	return nil
}
