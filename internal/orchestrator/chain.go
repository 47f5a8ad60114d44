package orchestrator

import (
	"fmt"
	"sort"

	"github.com/praxisllmlab/dongchaLLM/internal/config"
	"github.com/praxisllmlab/dongchaLLM/internal/provider"
)

// BuildChain constructs the provider fallback chain from config,
// ordered by priority (lowest first).
func BuildChain(cfg *config.ServiceConfig) ([]Attempt, error) {
	entries := make([]config.ProviderConfig, len(cfg.ProviderList))
	copy(entries, cfg.ProviderList)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].DongchaParams.Priority < entries[j].DongchaParams.Priority
	})

	attempts := make([]Attempt, 0, len(entries))
	for _, entry := range entries {
		params := entry.DongchaParams
		p, err := provider.Create(params.Provider, provider.Spec{
			Name:        entry.ProviderName,
			Model:       params.Model,
			APIKey:      params.Key(),
			APIBase:     params.Base(),
			Temperature: params.Temperature,
			MaxTokens:   params.MaxTokens,
			Marker:      cfg.DongchaSettings.ExtractionMarker,
		})
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", entry.ProviderName, err)
		}
		attempts = append(attempts, Attempt{Provider: p, Timeout: params.Timeout()})
	}
	return attempts, nil
}
