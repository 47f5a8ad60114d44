package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisllmlab/dongchaLLM/internal/config"

	_ "github.com/praxisllmlab/dongchaLLM/internal/provider/gemini"
	_ "github.com/praxisllmlab/dongchaLLM/internal/provider/groq"
	_ "github.com/praxisllmlab/dongchaLLM/internal/provider/openaicompat"
)

func TestBuildChain_OrderedByPriority(t *testing.T) {
	cfg, err := config.Parse([]byte(`
provider_list:
  - provider_name: backup-gemini
    dongcha_params:
      provider: gemini
      model: gemini-2.0-flash
      priority: 3
  - provider_name: primary-openai
    dongcha_params:
      provider: openai
      model: gpt-4o-mini
      priority: 1
      timeout_seconds: 8
  - provider_name: fast-groq
    dongcha_params:
      provider: groq
      model: llama-3.3-70b-versatile
      priority: 2
`))
	require.NoError(t, err)

	chain, err := BuildChain(cfg)
	require.NoError(t, err)
	require.Len(t, chain, 3)

	assert.Equal(t, "primary-openai", chain[0].Provider.Name())
	assert.Equal(t, 8*time.Second, chain[0].Timeout)
	assert.Equal(t, "fast-groq", chain[1].Provider.Name())
	assert.Equal(t, "backup-gemini", chain[2].Provider.Name())
}

func TestBuildChain_UnknownProviderKind(t *testing.T) {
	cfg := &config.ServiceConfig{
		ProviderList: []config.ProviderConfig{
			{ProviderName: "bad", DongchaParams: config.DongchaParams{Provider: "does-not-exist", Model: "x"}},
		},
	}

	_, err := BuildChain(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")
}
