package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about provider calls,
// dispatch attempts, and session outcomes. It is intentionally simple so it
// can be swapped for a real backend later; when otel instruments are attached
// every recording is mirrored there.
type Recorder struct {
	mu            sync.Mutex
	stats         map[string]*providerStats
	dispatch      map[string]int // outcome class -> count
	sessions      map[string]int // final state -> count
	ledgerCommits int
	ledgerErrors  int
	otel          *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:    make(map[string]*providerStats),
		dispatch: make(map[string]int),
		sessions: make(map[string]int),
		otel:     otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that an upstream response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordDispatchAttempt counts one per-recipient delivery attempt by outcome class.
func (r *Recorder) RecordDispatchAttempt(outcome string, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.dispatch[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordDispatchAttempt(outcome, duration)
	}
}

// RecordSessionOutcome counts one completed session by its final state.
func (r *Recorder) RecordSessionOutcome(state string, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.sessions[state]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSession(state, duration)
	}
}

// RecordLedgerCommit counts ledger commit attempts and failures.
func (r *Recorder) RecordLedgerCommit(err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ledgerCommits++
	if err != nil {
		r.ledgerErrors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordLedgerCommit(err)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// DispatchAttempts returns the number of attempts recorded for an outcome class.
func (r *Recorder) DispatchAttempts(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dispatch[outcome]
}

// SessionOutcomes returns the number of sessions that finished in a state.
func (r *Recorder) SessionOutcomes(state string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[state]
}

// LedgerCommits returns total and failed ledger commit counts.
func (r *Recorder) LedgerCommits() (total, failed int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledgerCommits, r.ledgerErrors
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

func (r *Recorder) ensureStatsLocked(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
