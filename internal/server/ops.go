package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nba-alert-service/internal/logging"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Ops serves the operational endpoints: liveness, readiness derived from the
// watcher's status, and the Prometheus scrape handler.
type Ops struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewOps builds the ops server. metricsHandler may be nil when telemetry is
// disabled; statusFn may be nil for one-shot runs.
func NewOps(port string, statusFn func() Status, metricsHandler http.Handler, logger *slog.Logger) *Ops {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if statusFn == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		status := statusFn()
		w.Header().Set("Content-Type", "application/json")
		if !status.IsReady() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ready":                status.IsReady(),
			"consecutive_failures": status.ConsecutiveFailures,
			"last_error":           status.LastError,
		})
	})

	if metricsHandler != nil {
		mux.Handle("/metrics", metricsHandler)
	}

	return &Ops{
		srv: &http.Server{
			Addr:         ":" + port,
			Handler:      mux,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			IdleTimeout:  idleTimeout,
		},
		logger: logger,
	}
}

// Handler exposes the mux for tests.
func (o *Ops) Handler() http.Handler {
	return o.srv.Handler
}

// Start serves in a goroutine; a listen failure invokes onErr.
func (o *Ops) Start(onErr func(error)) {
	logging.Info(o.logger, "ops server starting", "addr", o.srv.Addr)
	go func() {
		if err := o.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error(o.logger, "ops server failed", err)
			if onErr != nil {
				onErr(err)
			}
		}
	}()
}

// Shutdown drains the ops server.
func (o *Ops) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return o.srv.Shutdown(shutdownCtx)
}
