package transport

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestAsRateLimitErrorUnwraps(t *testing.T) {
	rl := &RateLimitError{Transport: "emailoctopus", StatusCode: 429, RetryAfter: 2 * time.Second}
	wrapped := fmt.Errorf("send failed: %w", rl)

	got, ok := AsRateLimitError(wrapped)
	if !ok {
		t.Fatal("expected rate limit error to unwrap")
	}
	if got.RetryAfter != 2*time.Second {
		t.Fatalf("unexpected retry-after: %v", got.RetryAfter)
	}
}

func TestAsRateLimitErrorRejectsOther(t *testing.T) {
	if _, ok := AsRateLimitError(errors.New("boom")); ok {
		t.Fatal("expected plain error to not classify as rate limit")
	}
}

func TestRateLimitErrorText(t *testing.T) {
	rl := &RateLimitError{StatusCode: 429}
	if got := rl.Error(); got != "transport rate limited (status=429)" {
		t.Fatalf("unexpected error text: %s", got)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"transient error type", &TransientError{Err: errors.New("502")}, true},
		{"wrapped transient", fmt.Errorf("send: %w", &TransientError{Err: errors.New("reset")}), true},
		{"deadline", context.DeadlineExceeded, true},
		{"terminal", errors.New("invalid api key"), false},
		{"already delivered", ErrAlreadyDelivered, false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestTransientErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	te := &TransientError{Err: inner}
	if !errors.Is(te, inner) {
		t.Fatal("expected Unwrap to expose inner error")
	}
}
