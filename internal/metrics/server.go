package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// ListenAndServe starts a dedicated HTTP server for metrics export.
// It reads METRICS_PORT env var (default ":9090"). If METRICS_PORT is
// explicitly set to "", the metrics server is disabled. The server
// shuts down gracefully when ctx is cancelled.
func ListenAndServe(ctx context.Context, collector *Collector) {
	port := Addr()
	if port == "" {
		log.Println("METRICS_PORT is empty, metrics server disabled")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/metrics/snapshot", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(collector.Snapshot())
	})

	srv := &http.Server{
		Addr:         port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("metrics server shutdown error: %v", err)
		}
	}()

	log.Printf("metrics server listening on %s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("metrics server error: %v", err)
	}
}

// Addr returns the metrics server address from env, or the default.
// Returns "" when the server is explicitly disabled.
func Addr() string {
	port := os.Getenv("METRICS_PORT")
	if port == "" {
		if _, ok := os.LookupEnv("METRICS_PORT"); ok {
			return ""
		}
		return ":9090"
	}
	if port[0] != ':' {
		return fmt.Sprintf(":%s", port)
	}
	return port
}
