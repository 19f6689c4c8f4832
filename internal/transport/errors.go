package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// RateLimitError captures rate limit responses from the notification
// transport. Drivers back off and retry these.
type RateLimitError struct {
	Transport  string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "transport rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// TransientError marks a failure worth retrying: timeouts, connection drops,
// upstream 5xx responses.
type TransientError struct {
	Transport string
	Err       error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient transport error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the error should be retried with backoff.
// Besides explicit TransientError values, network timeouts and context
// deadline expiry count as transient.
func IsTransient(err error) bool {
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
