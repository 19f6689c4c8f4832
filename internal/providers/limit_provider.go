package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/logging"
)

// rateLimitedProvider wraps an EventProvider and enforces a minimum interval
// between calls to avoid exceeding upstream quotas.
type rateLimitedProvider struct {
	next    EventProvider
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedProvider returns an EventProvider that paces calls to the
// given interval. Calls block until a slot is available or ctx is canceled.
func NewRateLimitedProvider(next EventProvider, interval time.Duration, logger *slog.Logger) EventProvider {
	if interval <= 0 {
		interval = time.Minute
	}
	return &rateLimitedProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		logger:  logger,
	}
}

func (p *rateLimitedProvider) FetchEvents(ctx context.Context, startDate, endDate string) ([]events.ScoringEvent, error) {
	if p == nil || p.next == nil {
		logging.Warn(p.loggerOrNil(), "provider unavailable", logging.FieldProvider, "rate-limited")
		return nil, ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logging.Warn(p.logger, "rate-limited fetch canceled", logging.FieldProvider, "rate-limited")
		return nil, err
	}
	logging.Info(p.logger, "rate-limited provider fetch",
		logging.FieldProvider, "rate-limited",
		"start_date", startDate,
		"end_date", endDate)
	return p.next.FetchEvents(ctx, startDate, endDate)
}

func (p *rateLimitedProvider) loggerOrNil() *slog.Logger {
	if p == nil {
		return nil
	}
	return p.logger
}
