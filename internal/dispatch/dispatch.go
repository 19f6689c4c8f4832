// Package dispatch drives per-recipient delivery attempts with bounded
// retries and exponential backoff.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"nba-alert-service/internal/logging"
	"nba-alert-service/internal/metrics"
	"nba-alert-service/internal/recipients"
	"nba-alert-service/internal/transport"
)

// Status classifies the final result of delivering to one recipient.
type Status string

const (
	// StatusDelivered means the transport accepted the notification.
	StatusDelivered Status = "DELIVERED"
	// StatusAlreadyDelivered means the recipient's transport-side history
	// already has this notification. A success for counting purposes.
	StatusAlreadyDelivered Status = "ALREADY_DELIVERED"
	// StatusFailed means delivery failed terminally or the retry ceiling
	// was exhausted.
	StatusFailed Status = "FAILED"
)

// Outcome is the per-recipient dispatch result.
type Outcome struct {
	Status   Status
	Reason   string // populated when Status is StatusFailed
	Attempts int
}

// Config bounds the retry loop. Zero values fall back to defaults.
type Config struct {
	MaxAttempts    int           // retry ceiling per recipient
	InitialBackoff time.Duration // first retry wait; doubles each attempt
	MaxBackoff     time.Duration // per-wait cap
}

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 2 * time.Second
	defaultMaxBackoff     = 30 * time.Second
)

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = defaultInitialBackoff
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = defaultMaxBackoff
	}
	return c
}

// Driver delivers one message to one recipient at a time, classifying each
// attempt's error and retrying only the retryable classes.
type Driver struct {
	notifier transport.Notifier
	logger   *slog.Logger
	metrics  *metrics.Recorder
	cfg      Config
}

// NewDriver constructs a Driver around the given notifier.
func NewDriver(notifier transport.Notifier, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Driver {
	return &Driver{
		notifier: notifier,
		logger:   logger,
		metrics:  recorder,
		cfg:      cfg.withDefaults(),
	}
}

// Deliver attempts the transport call up to the retry ceiling.
// Classification per attempt:
//   - "already notified" from the transport short-circuits to AlreadyDelivered;
//   - rate limits and transient errors retry with exponential backoff and
//     jitter, counted against the ceiling;
//   - anything else is terminal for this recipient.
//
// The backoff waits are context-aware, so a cancelled ctx ends the loop
// rather than sleeping through it.
func (d *Driver) Deliver(ctx context.Context, rcpt recipients.Recipient, msg transport.Message) Outcome {
	bo := d.newBackOff()

	var lastErr error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		start := time.Now()
		err := d.notifier.Send(ctx, rcpt, msg)
		elapsed := time.Since(start)

		if err == nil {
			d.metrics.RecordDispatchAttempt(string(StatusDelivered), elapsed)
			return Outcome{Status: StatusDelivered, Attempts: attempt}
		}
		if errors.Is(err, transport.ErrAlreadyDelivered) {
			d.metrics.RecordDispatchAttempt(string(StatusAlreadyDelivered), elapsed)
			return Outcome{Status: StatusAlreadyDelivered, Attempts: attempt}
		}

		lastErr = err
		rl, rateLimited := transport.AsRateLimitError(err)
		if rateLimited {
			d.metrics.RecordRateLimit(d.transportName(), rl.RetryAfter)
		} else if !transport.IsTransient(err) {
			// Terminal for this recipient; no further retries.
			d.metrics.RecordDispatchAttempt(string(StatusFailed), elapsed)
			return Outcome{Status: StatusFailed, Reason: err.Error(), Attempts: attempt}
		}

		if attempt == d.cfg.MaxAttempts {
			break
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			break
		}
		if rateLimited && rl.RetryAfter > wait {
			wait = rl.RetryAfter
		}

		logging.Warn(d.logger, "delivery retry",
			logging.FieldRecipient, rcpt.ID,
			logging.FieldAttempt, attempt,
			"wait", wait.String(),
			"error", err)

		select {
		case <-ctx.Done():
			d.metrics.RecordDispatchAttempt(string(StatusFailed), elapsed)
			return Outcome{Status: StatusFailed, Reason: ctx.Err().Error(), Attempts: attempt}
		case <-time.After(wait):
		}
	}

	d.metrics.RecordDispatchAttempt(string(StatusFailed), 0)
	reason := "retry ceiling exhausted"
	if lastErr != nil {
		reason = lastErr.Error()
	}
	return Outcome{Status: StatusFailed, Reason: reason, Attempts: d.cfg.MaxAttempts}
}

func (d *Driver) newBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = d.cfg.InitialBackoff
	bo.Multiplier = 2
	bo.MaxInterval = d.cfg.MaxBackoff
	bo.MaxElapsedTime = 0 // the attempt ceiling bounds the loop, not wall clock
	bo.Reset()
	return bo
}

func (d *Driver) transportName() string {
	if named, ok := d.notifier.(transport.Name); ok {
		return named.Name()
	}
	return "transport"
}
