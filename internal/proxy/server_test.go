package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxisllmlab/dongchaLLM/internal/config"
	"github.com/praxisllmlab/dongchaLLM/internal/metrics"
	"github.com/praxisllmlab/dongchaLLM/internal/orchestrator"
	"github.com/praxisllmlab/dongchaLLM/internal/proxy/handler"
	"github.com/praxisllmlab/dongchaLLM/internal/quality"
)

func newTestServer(t *testing.T, masterKey string) *Server {
	t.Helper()
	cfg, err := config.Parse([]byte(`
provider_list:
  - provider_name: primary
    dongcha_params:
      provider: openai
      model: gpt-4o-mini
`))
	require.NoError(t, err)

	h := &handler.Handlers{
		Config: cfg,
		Orchestrator: orchestrator.New(nil, nil,
			quality.NewValidator(cfg.DongchaSettings.Quality),
			metrics.NewCollector(), nil),
		Collector: metrics.NewCollector(),
	}
	return NewServer(h, masterKey)
}

func TestRoutes_HealthIsOpen(t *testing.T) {
	s := newTestServer(t, "sk-master")

	for _, path := range []string{"/health", "/health/liveness", "/health/providers"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "path %s should not require auth", path)
	}
}

func TestRoutes_V1RequiresAuth(t *testing.T) {
	s := newTestServer(t, "sk-master")

	req := httptest.NewRequest(http.MethodGet, "/v1/metrics", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/metrics", nil)
	req.Header.Set("Authorization", "Bearer sk-master")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutes_UnknownPath(t *testing.T) {
	s := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
