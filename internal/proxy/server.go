package proxy

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/praxisllmlab/dongchaLLM/internal/proxy/handler"
	"github.com/praxisllmlab/dongchaLLM/internal/proxy/middleware"
)

// Server holds dependencies for the HTTP service.
type Server struct {
	Router   chi.Router
	Handlers *handler.Handlers

	authMW func(http.Handler) http.Handler
}

// NewServer creates a chi router with all routes configured.
func NewServer(h *handler.Handlers, masterKey string) *Server {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	s := &Server{
		Router:   r,
		Handlers: h,
		authMW:   middleware.NewAuthMiddleware(masterKey),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.Router

	// Health endpoints (no auth)
	r.Route("/health", func(r chi.Router) {
		r.Get("/", s.Handlers.HealthCheck)
		r.Get("/liveness", s.Handlers.HealthLiveness)
		r.Get("/providers", s.Handlers.HealthProviders)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.authMW)
		r.Post("/analyze", s.Handlers.Analyze)
		r.Get("/cache/stats", s.Handlers.CacheStats)
		r.Get("/metrics", s.Handlers.MetricsSnapshot)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
