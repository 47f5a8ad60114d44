package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/praxisllmlab/dongchaLLM/internal/cache"
	"github.com/praxisllmlab/dongchaLLM/internal/config"
	"github.com/praxisllmlab/dongchaLLM/internal/metrics"
	"github.com/praxisllmlab/dongchaLLM/internal/orchestrator"
	"github.com/praxisllmlab/dongchaLLM/internal/proxy"
	"github.com/praxisllmlab/dongchaLLM/internal/proxy/handler"
	"github.com/praxisllmlab/dongchaLLM/internal/quality"
	"github.com/praxisllmlab/dongchaLLM/internal/ratelimit"

	// Register all providers via init()
	_ "github.com/praxisllmlab/dongchaLLM/internal/provider/gemini"
	_ "github.com/praxisllmlab/dongchaLLM/internal/provider/groq"
	_ "github.com/praxisllmlab/dongchaLLM/internal/provider/openaicompat"
)

func main() {
	configPath := flag.String("config", "dongcha_config.yaml", "path to service config YAML")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("loaded %d providers from config", len(cfg.ProviderList))

	// Init cache (config-driven). Redis falls back to memory when
	// unreachable so the service still starts.
	cacheParams := cfg.DongchaSettings.Cache
	store, err := cache.NewFromConfig(ctx, cacheParams)
	if err != nil {
		log.Printf("warn: %v, using memory cache", err)
		cacheParams.Type = "memory"
		store, _ = cache.NewFromConfig(ctx, cacheParams)
	} else if cacheParams.Type == "redis" {
		log.Println("redis cache connected")
	}

	// The limiter shares the Redis connection when one is configured.
	rl := cfg.DongchaSettings.RateLimit
	var limiter ratelimit.Limiter
	if rc, ok := store.(*cache.RedisCache); ok {
		limiter = ratelimit.NewRedisLimiter(rc.Client(), rl.MaxRequests, rl.Window())
		log.Println("redis rate limiter configured")
	} else {
		limiter = ratelimit.NewMemoryLimiter(rl.MaxRequests, rl.Window())
	}

	collector := metrics.NewCollectorWithPrometheus()
	validator := quality.NewValidator(cfg.DongchaSettings.Quality)

	chain, err := orchestrator.BuildChain(cfg)
	if err != nil {
		log.Fatalf("build provider chain: %v", err)
	}
	for _, at := range chain {
		log.Printf("provider registered: %s (timeout=%s)", at.Provider.Name(), at.Timeout)
	}

	orch := orchestrator.New(limiter, store, validator, collector, chain)

	handlers := &handler.Handlers{
		Config:       cfg,
		Orchestrator: orch,
		Cache:        store,
		Collector:    collector,
		Chain:        chain,
	}
	srv := proxy.NewServer(handlers, cfg.GeneralSettings.MasterKey)

	// Dedicated metrics server
	go metrics.ListenAndServe(ctx, collector)

	addr := fmt.Sprintf(":%d", cfg.GeneralSettings.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
		cancel()
	}()

	log.Printf("dongchaLLM listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
