// Package server runs the alert pipeline on an interval and exposes the
// operational HTTP endpoints.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"nba-alert-service/internal/logging"
)

const defaultInterval = time.Hour

// Runner executes one full scan-and-dispatch cycle.
type Runner interface {
	RunOnce(ctx context.Context) error
}

// RunnerFunc adapts a plain function to Runner.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) RunOnce(ctx context.Context) error { return f(ctx) }

// Watcher runs cycles on an interval and tracks health for readiness checks.
type Watcher struct {
	runner   Runner
	logger   *slog.Logger
	interval time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the watch loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the watcher has had a recent success and is not
// failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// NewWatcher constructs a Watcher with sane defaults.
func NewWatcher(runner Runner, logger *slog.Logger, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Watcher{
		runner:   runner,
		logger:   logger,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the watch loop until the context is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.startMu.Lock()
	if w.started {
		w.startMu.Unlock()
		return
	}
	w.started = true
	w.startMu.Unlock()

	w.ticker = time.NewTicker(w.interval)

	go func() {
		logging.Info(w.logger, "watcher started", logging.FieldDurationMS, w.interval.Milliseconds())
		// Initial cycle on boot so a fresh deploy alerts without waiting a tick.
		w.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				w.stopTicker()
				logging.Info(w.logger, "watcher stopped")
				return
			case <-w.done:
				w.stopTicker()
				logging.Info(w.logger, "watcher stopped")
				return
			case <-w.ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

// Stop halts the watch loop.
func (w *Watcher) Stop(ctx context.Context) error {
	_ = ctx
	w.stopOnce.Do(func() {
		close(w.done)
		w.stopTicker()
	})
	return nil
}

func (w *Watcher) runOnce(ctx context.Context) {
	start := time.Now()
	w.recordAttempt(start)

	err := w.runner.RunOnce(ctx)
	if err != nil {
		logging.Error(w.logger, "watch cycle failed", err,
			logging.FieldDurationMS, time.Since(start).Milliseconds())
		w.recordFailure(err, start)
		return
	}

	w.recordSuccess(start)
	logging.Info(w.logger, "watch cycle completed",
		logging.FieldDurationMS, time.Since(start).Milliseconds())
}

func (w *Watcher) stopTicker() {
	if w.ticker != nil {
		w.ticker.Stop()
	}
}

func (w *Watcher) recordAttempt(at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.LastAttempt = at
}

func (w *Watcher) recordSuccess(at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures = 0
	w.status.LastError = ""
	w.status.LastSuccess = at
}

func (w *Watcher) recordFailure(err error, at time.Time) {
	w.statusMu.Lock()
	defer w.statusMu.Unlock()
	w.status.ConsecutiveFailures++
	if err != nil {
		w.status.LastError = err.Error()
	}
	w.status.LastAttempt = at
}

// Status returns a snapshot of the watcher's recent health.
func (w *Watcher) Status() Status {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()
	return w.status
}
