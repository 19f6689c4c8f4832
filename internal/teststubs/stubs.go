// Package teststubs holds shared test doubles for the alert pipeline.
package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/recipients"
	"nba-alert-service/internal/transport"
)

// StubProvider is a test double for providers.EventProvider.
type StubProvider struct {
	Events []events.ScoringEvent
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}
}

// FetchEvents returns configured events and error while tracking calls.
func (s *StubProvider) FetchEvents(ctx context.Context, startDate, endDate string) ([]events.ScoringEvent, error) {
	_ = ctx
	_ = startDate
	_ = endDate
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	return s.Events, s.Err
}

// Name identifies the stub in logs and metrics.
func (s *StubProvider) Name() string { return "stub" }

// StubSource is a test double for recipients.Source.
type StubSource struct {
	Recipients []recipients.Recipient
	Err        error
	Calls      atomic.Int32
}

// FetchAll returns the configured audience and error while tracking calls.
func (s *StubSource) FetchAll(ctx context.Context) ([]recipients.Recipient, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Recipients, nil
}

// StubNotifier is a test double for transport.Notifier. Errs are consumed in
// order; once exhausted every Send succeeds.
type StubNotifier struct {
	Errs []error

	mu   sync.Mutex
	sent []string
	call int
}

// Send records the recipient and returns the next scripted error.
func (s *StubNotifier) Send(ctx context.Context, rcpt recipients.Recipient, msg transport.Message) error {
	_ = ctx
	_ = msg
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, rcpt.Email)
	idx := s.call
	s.call++
	if idx < len(s.Errs) {
		return s.Errs[idx]
	}
	return nil
}

// Name identifies the stub in logs and metrics.
func (s *StubNotifier) Name() string { return "stub" }

// Sent returns the recipient emails in send order.
func (s *StubNotifier) Sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

// Calls returns the number of Send invocations.
func (s *StubNotifier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.call
}

// StubLedger is a test double for the session's ledger contract.
type StubLedger struct {
	Keys      map[string]struct{}
	CommitErr error

	mu        sync.Mutex
	Committed [][]string
}

// Contains reports whether the key was pre-seeded or previously committed.
func (s *StubLedger) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Keys[key]
	return ok
}

// Commit records the keys or returns the scripted failure.
func (s *StubLedger) Commit(newKeys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CommitErr != nil {
		return s.CommitErr
	}
	if s.Keys == nil {
		s.Keys = make(map[string]struct{})
	}
	for _, k := range newKeys {
		s.Keys[k] = struct{}{}
	}
	s.Committed = append(s.Committed, append([]string(nil), newKeys...))
	return nil
}
