package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderTracksProviderAttemptsAndErrors(t *testing.T) {
	rec := NewRecorder()
	rec.RecordProviderAttempt("espn", 10*time.Millisecond, nil)
	rec.RecordProviderAttempt("espn", 15*time.Millisecond, errors.New("boom"))

	if got := rec.ProviderCalls("espn"); got != 2 {
		t.Fatalf("expected 2 calls, got %d", got)
	}
	if got := rec.ProviderErrors("espn"); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
	if got := rec.LastCallLatency("espn"); got != 15*time.Millisecond {
		t.Fatalf("expected last latency to be 15ms, got %s", got)
	}

	snap := rec.Snapshot("espn")
	if snap.Calls != 2 || snap.Errors != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestRecorderTracksRateLimits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimit("emailoctopus", 5*time.Second)
	rec.RecordRateLimit("emailoctopus", 0)

	if got := rec.RateLimitHits("emailoctopus"); got != 2 {
		t.Fatalf("expected 2 rate limit hits, got %d", got)
	}
	if got := rec.LastRetryAfter("emailoctopus"); got != 5*time.Second {
		t.Fatalf("expected last retry-after to be 5s, got %s", got)
	}
}

func TestRecorderTracksDispatchOutcomes(t *testing.T) {
	rec := NewRecorder()
	rec.RecordDispatchAttempt("DELIVERED", time.Millisecond)
	rec.RecordDispatchAttempt("DELIVERED", time.Millisecond)
	rec.RecordDispatchAttempt("FAILED", time.Millisecond)

	if got := rec.DispatchAttempts("DELIVERED"); got != 2 {
		t.Fatalf("expected 2 delivered, got %d", got)
	}
	if got := rec.DispatchAttempts("FAILED"); got != 1 {
		t.Fatalf("expected 1 failed, got %d", got)
	}
	if got := rec.DispatchAttempts("ALREADY_DELIVERED"); got != 0 {
		t.Fatalf("expected 0 already-delivered, got %d", got)
	}
}

func TestRecorderTracksSessionsAndCommits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordSessionOutcome("COMMITTED", time.Second)
	rec.RecordSessionOutcome("DEFERRED", time.Second)
	rec.RecordLedgerCommit(nil)
	rec.RecordLedgerCommit(errors.New("disk full"))

	if got := rec.SessionOutcomes("COMMITTED"); got != 1 {
		t.Fatalf("expected 1 committed session, got %d", got)
	}
	total, failed := rec.LedgerCommits()
	if total != 2 || failed != 1 {
		t.Fatalf("expected 2 commits / 1 failure, got %d / %d", total, failed)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.RecordProviderAttempt("espn", time.Millisecond, nil)
	rec.RecordDispatchAttempt("DELIVERED", time.Millisecond)
	rec.RecordSessionOutcome("COMMITTED", time.Second)
	rec.RecordLedgerCommit(nil)
	if rec.ProviderCalls("espn") != 0 {
		t.Fatal("expected zero stats from nil recorder")
	}
}
