package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/logging"
	"nba-alert-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	defaultMaxBackoff    = 30 * time.Second
)

// retryingProvider wraps an EventProvider with retry/backoff behavior.
type retryingProvider struct {
	inner       EventProvider
	logger      *slog.Logger
	recorder    *metrics.Recorder
	maxAttempts int
	initial     time.Duration
	max         time.Duration
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts
// or initialBackoff are <= 0, defaults are used. Rate-limit errors stretch
// the wait to the upstream Retry-After when it exceeds the computed backoff.
func NewRetryingProvider(inner EventProvider, logger *slog.Logger, recorder *metrics.Recorder, maxAttempts int, initialBackoff time.Duration) EventProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initialBackoff <= 0 {
		initialBackoff = defaultBackoff
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		recorder:    recorder,
		maxAttempts: maxAttempts,
		initial:     initialBackoff,
		max:         defaultMaxBackoff,
	}
}

func (r *retryingProvider) FetchEvents(ctx context.Context, startDate, endDate string) ([]events.ScoringEvent, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.initial
	bo.MaxInterval = r.max
	bo.MaxElapsedTime = 0
	bo.Reset()

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		started := time.Now()
		evs, err := r.inner.FetchEvents(ctx, startDate, endDate)
		r.recorder.RecordProviderAttempt(r.name(), time.Since(started), err)
		if err == nil {
			return evs, nil
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		delay := bo.NextBackOff()
		if rlErr, ok := AsRateLimitError(err); ok {
			r.recorder.RecordRateLimit(r.name(), rlErr.RetryAfter)
			if rlErr.RetryAfter > delay {
				delay = rlErr.RetryAfter
			}
		}

		logging.Warn(r.logger, "provider fetch retry",
			logging.FieldAttempt, attempt,
			"max_attempts", r.maxAttempts,
			"delay", delay.String(),
			"err", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	logging.Warn(r.logger, "provider fetch failed", "attempts", r.maxAttempts, "err", lastErr)
	return nil, lastErr
}

func (r *retryingProvider) name() string {
	if named, ok := r.inner.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "unknown"
}
