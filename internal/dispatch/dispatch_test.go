package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"nba-alert-service/internal/metrics"
	"nba-alert-service/internal/recipients"
	"nba-alert-service/internal/transport"
)

// scriptedNotifier returns the queued errors in order, then nil.
type scriptedNotifier struct {
	errs  []error
	calls int
}

func (s *scriptedNotifier) Send(ctx context.Context, rcpt recipients.Recipient, msg transport.Message) error {
	s.calls++
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func (s *scriptedNotifier) Name() string { return "scripted" }

func fastConfig() Config {
	return Config{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func testRecipient() recipients.Recipient {
	return recipients.Recipient{ID: "r1", Email: "fan@example.com"}
}

func TestDeliverSucceedsFirstAttempt(t *testing.T) {
	n := &scriptedNotifier{}
	d := NewDriver(n, nil, metrics.NewRecorder(), fastConfig())

	out := d.Deliver(context.Background(), testRecipient(), transport.Message{Key: "k"})
	if out.Status != StatusDelivered {
		t.Fatalf("expected delivered, got %+v", out)
	}
	if out.Attempts != 1 || n.calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d (%d calls)", out.Attempts, n.calls)
	}
}

func TestDeliverShortCircuitsOnAlreadyDelivered(t *testing.T) {
	n := &scriptedNotifier{errs: []error{transport.ErrAlreadyDelivered}}
	d := NewDriver(n, nil, metrics.NewRecorder(), fastConfig())

	out := d.Deliver(context.Background(), testRecipient(), transport.Message{Key: "k"})
	if out.Status != StatusAlreadyDelivered {
		t.Fatalf("expected already-delivered, got %+v", out)
	}
	if n.calls != 1 {
		t.Fatalf("expected no retries after already-delivered, got %d calls", n.calls)
	}
}

func TestDeliverRetriesTransientThenSucceeds(t *testing.T) {
	n := &scriptedNotifier{errs: []error{&transport.TransientError{Err: errors.New("connection reset")}}}
	d := NewDriver(n, nil, metrics.NewRecorder(), fastConfig())

	out := d.Deliver(context.Background(), testRecipient(), transport.Message{Key: "k"})
	if out.Status != StatusDelivered {
		t.Fatalf("expected delivered after retry, got %+v", out)
	}
	if out.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", out.Attempts)
	}
}

func TestDeliverRetriesRateLimit(t *testing.T) {
	rec := metrics.NewRecorder()
	n := &scriptedNotifier{errs: []error{&transport.RateLimitError{StatusCode: 429, RetryAfter: time.Millisecond}}}
	d := NewDriver(n, nil, rec, fastConfig())

	out := d.Deliver(context.Background(), testRecipient(), transport.Message{Key: "k"})
	if out.Status != StatusDelivered || out.Attempts != 2 {
		t.Fatalf("expected delivery on second attempt, got %+v", out)
	}
	if rec.RateLimitHits("scripted") != 1 {
		t.Fatalf("expected rate limit recorded, got %d", rec.RateLimitHits("scripted"))
	}
}

func TestDeliverTerminalErrorDoesNotRetry(t *testing.T) {
	n := &scriptedNotifier{errs: []error{errors.New("invalid api key"), nil, nil}}
	d := NewDriver(n, nil, metrics.NewRecorder(), fastConfig())

	out := d.Deliver(context.Background(), testRecipient(), transport.Message{Key: "k"})
	if out.Status != StatusFailed {
		t.Fatalf("expected failure, got %+v", out)
	}
	if n.calls != 1 {
		t.Fatalf("expected a single attempt for a terminal error, got %d", n.calls)
	}
	if out.Reason != "invalid api key" {
		t.Fatalf("expected terminal reason, got %q", out.Reason)
	}
}

func TestDeliverExhaustsRetryCeiling(t *testing.T) {
	transient := func() error { return &transport.TransientError{Err: errors.New("timeout")} }
	n := &scriptedNotifier{errs: []error{transient(), transient(), transient()}}
	d := NewDriver(n, nil, metrics.NewRecorder(), fastConfig())

	out := d.Deliver(context.Background(), testRecipient(), transport.Message{Key: "k"})
	if out.Status != StatusFailed {
		t.Fatalf("expected failure, got %+v", out)
	}
	if n.calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", n.calls)
	}
	if out.Reason == "" {
		t.Fatal("expected last failure reason to be reported")
	}
}

func TestDeliverHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := &scriptedNotifier{errs: []error{&transport.TransientError{Err: errors.New("timeout")}}}
	cfg := fastConfig()
	cfg.InitialBackoff = time.Hour // would hang without context awareness
	d := NewDriver(n, nil, metrics.NewRecorder(), cfg)

	done := make(chan Outcome, 1)
	go func() { done <- d.Deliver(ctx, testRecipient(), transport.Message{Key: "k"}) }()

	select {
	case out := <-done:
		if out.Status != StatusFailed {
			t.Fatalf("expected failure on cancelled context, got %+v", out)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Deliver did not return after context cancellation")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.MaxAttempts != 3 {
		t.Fatalf("expected default retry ceiling 3, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != 2*time.Second || cfg.MaxBackoff != 30*time.Second {
		t.Fatalf("unexpected backoff defaults: %+v", cfg)
	}
}
