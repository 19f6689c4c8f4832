// Package session orchestrates one end-to-end alert run:
// validate -> diff against the ledger -> fetch recipients -> dispatch ->
// decide whether it is safe to record the batch as delivered.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"nba-alert-service/internal/dispatch"
	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/logging"
	"nba-alert-service/internal/metrics"
	"nba-alert-service/internal/recipients"
	"nba-alert-service/internal/timeutil"
	"nba-alert-service/internal/transport"
	"nba-alert-service/internal/validate"
)

// State names the phases of a dispatch session. Terminal states are
// StateCommitted, StateDeferred and StateFatal.
type State string

const (
	StateIdle               State = "IDLE"
	StateValidating         State = "VALIDATING"
	StateDiffing            State = "DIFFING"
	StateFetchingRecipients State = "FETCHING_RECIPIENTS"
	StateDispatching        State = "DISPATCHING"
	StateDeciding           State = "DECIDING"
	StateCommitted          State = "COMMITTED"
	StateDeferred           State = "DEFERRED"
	StateFatal              State = "FATAL"
)

// ErrUnrecordedDelivery marks the highest-severity failure: notifications
// went out but the ledger commit failed afterwards. A naive retry of the
// session would duplicate sends, so callers must distinguish this from an
// ordinary deferral.
var ErrUnrecordedDelivery = errors.New("delivered but not recorded")

// Ledger is the slice of the delivery ledger the session needs. The caller
// loads the ledger up front because a corrupt artifact must halt the process
// before any session starts.
type Ledger interface {
	Contains(key string) bool
	Commit(newKeys []string) error
}

// Deliverer runs one per-recipient delivery attempt loop.
type Deliverer interface {
	Deliver(ctx context.Context, rcpt recipients.Recipient, msg transport.Message) dispatch.Outcome
}

// MessageBuilder renders the notification content for a pending event batch.
type MessageBuilder func(batch []events.ScoringEvent) transport.Message

// Config carries the session's tunables with documented defaults, so tests
// can override them without touching process-wide state.
type Config struct {
	// SuccessThreshold is the minimum effective delivery rate required to
	// commit the batch. Default 0.95.
	SuccessThreshold float64
	// FreshnessWindowDays drops events older than this many days before
	// "today"; a stale event is no longer actionable. Default 1.
	FreshnessWindowDays int
	// PacingPerSecond throttles the recipient loop to a bounded request
	// rate. Default 5 recipients/second.
	PacingPerSecond float64
}

const (
	defaultSuccessThreshold = 0.95
	defaultFreshnessDays    = 1
	defaultPacingPerSecond  = 5
)

func (c Config) withDefaults() Config {
	if c.SuccessThreshold <= 0 || c.SuccessThreshold > 1 {
		c.SuccessThreshold = defaultSuccessThreshold
	}
	if c.FreshnessWindowDays <= 0 {
		c.FreshnessWindowDays = defaultFreshnessDays
	}
	if c.PacingPerSecond <= 0 {
		c.PacingPerSecond = defaultPacingPerSecond
	}
	return c
}

// Counts aggregates per-recipient outcomes for the decision step.
type Counts struct {
	Delivered        int
	AlreadyDelivered int
	Failed           int
}

// Total returns the number of recipient attempts.
func (c Counts) Total() int {
	return c.Delivered + c.AlreadyDelivered + c.Failed
}

// EffectiveRate counts AlreadyDelivered as success: those recipients have the
// notification regardless of who sent it.
func (c Counts) EffectiveRate() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Delivered+c.AlreadyDelivered) / float64(total)
}

// Result is the session's final report.
type Result struct {
	State      State
	NewKeys    []string // keys committed (or that would have been committed)
	Counts     Counts
	Recipients int
	Invalid    int // candidates dropped by validation
	Duplicates int // candidates already in the ledger
	Stale      int // candidates outside the freshness window
	// Receipts records each recipient's final status so a retrying caller
	// can see who already got the notification within this run.
	Receipts map[string]dispatch.Status
	Reason   string
	Err      error
}

// Success reports whether the run may exit zero.
func (r Result) Success() bool {
	return r.State == StateCommitted
}

// Session runs the alert pipeline once. Construct with New; not safe for
// concurrent use, but cheap to build per run.
type Session struct {
	validator *validate.Validator
	ledger    Ledger
	source    recipients.Source
	driver    Deliverer
	buildMsg  MessageBuilder
	logger    *slog.Logger
	metrics   *metrics.Recorder
	cfg       Config
	now       func() time.Time
	loc       *time.Location
}

// New wires a session from its collaborators.
func New(validator *validate.Validator, ldg Ledger, source recipients.Source, driver Deliverer, buildMsg MessageBuilder, logger *slog.Logger, recorder *metrics.Recorder, cfg Config) *Session {
	return &Session{
		validator: validator,
		ledger:    ldg,
		source:    source,
		driver:    driver,
		buildMsg:  buildMsg,
		logger:    logger,
		metrics:   recorder,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
		loc:       timeutil.Eastern(),
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *Session) WithClock(now func() time.Time) *Session {
	s.now = now
	return s
}

// Run executes one session over the candidate events.
func (s *Session) Run(ctx context.Context, candidates []events.ScoringEvent) Result {
	start := s.now()
	res := s.run(ctx, candidates)
	s.metrics.RecordSessionOutcome(string(res.State), s.now().Sub(start))

	switch res.State {
	case StateCommitted:
		logging.Info(s.logger, "session committed",
			logging.FieldState, string(res.State),
			logging.FieldCount, len(res.NewKeys),
			"delivered", res.Counts.Delivered,
			"already_delivered", res.Counts.AlreadyDelivered)
	case StateDeferred:
		logging.Warn(s.logger, "session deferred, batch will be retried in full",
			logging.FieldState, string(res.State),
			"reason", res.Reason)
	case StateFatal:
		logging.Error(s.logger, "session fatal", res.Err,
			logging.FieldState, string(res.State),
			"reason", res.Reason)
	}
	return res
}

func (s *Session) run(ctx context.Context, candidates []events.ScoringEvent) Result {
	res := Result{State: StateIdle, Receipts: make(map[string]dispatch.Status)}

	// Validating: invalid events are logged with their violations and
	// dropped from this run. They are not recorded as delivered, so a later
	// corrected version of the same event can still be dispatched.
	res.State = StateValidating
	valid := make([]events.ScoringEvent, 0, len(candidates))
	for _, ev := range candidates {
		if violations := s.validator.Validate(ev); len(violations) > 0 {
			res.Invalid++
			logging.Warn(s.logger, "candidate event rejected",
				logging.FieldAlertKey, ev.AlertKey(),
				"violations", formatViolations(violations))
			continue
		}
		valid = append(valid, ev)
	}

	// Diffing: drop already-ledgered keys, then drop stale events. A stale
	// event is logged but deliberately NOT ledgered: recording it as
	// delivered without delivering would be incorrect bookkeeping.
	res.State = StateDiffing
	today := s.now().In(s.loc)
	staleCutoff := timeutil.FormatDate(today.AddDate(0, 0, -s.cfg.FreshnessWindowDays))

	pending := make([]events.ScoringEvent, 0, len(valid))
	for _, ev := range valid {
		key := ev.AlertKey()
		if s.ledger.Contains(key) {
			res.Duplicates++
			continue
		}
		if ev.Date < staleCutoff {
			res.Stale++
			logging.Warn(s.logger, "stale event skipped, not delivered and not recorded",
				logging.FieldAlertKey, key,
				logging.FieldDate, ev.Date,
				"cutoff", staleCutoff)
			continue
		}
		pending = append(pending, ev)
	}

	if len(pending) == 0 {
		// No-op success: nothing new to deliver, nothing to record.
		res.State = StateCommitted
		logging.Info(s.logger, "no new events to alert about",
			"invalid", res.Invalid, "duplicates", res.Duplicates, "stale", res.Stale)
		return res
	}

	keys := make([]string, len(pending))
	for i, ev := range pending {
		keys[i] = ev.AlertKey()
	}
	res.NewKeys = keys

	// FetchingRecipients: Unavailable defers the whole session with no
	// ledger mutation; an empty audience is a terminal success with nothing
	// pending to retry, so the keys are committed.
	res.State = StateFetchingRecipients
	audience, err := s.source.FetchAll(ctx)
	if err != nil {
		res.State = StateDeferred
		res.Reason = "recipient source unavailable"
		res.Err = fmt.Errorf("fetch recipients: %w", err)
		return res
	}
	res.Recipients = len(audience)

	if len(audience) == 0 {
		logging.Info(s.logger, "audience empty, recording events with no deliveries",
			logging.FieldCount, len(keys))
		return s.commit(res)
	}

	// Dispatching: one driver call per recipient, throttled. Aggregates are
	// only inspected after every recipient has been attempted.
	res.State = StateDispatching
	msg := s.buildMsg(pending)
	limiter := rate.NewLimiter(rate.Limit(s.cfg.PacingPerSecond), 1)

	for _, rcpt := range audience {
		if err := limiter.Wait(ctx); err != nil {
			res.Counts.Failed++
			res.Receipts[rcpt.ID] = dispatch.StatusFailed
			continue
		}
		out := s.driver.Deliver(ctx, rcpt, msg)
		res.Receipts[rcpt.ID] = out.Status
		switch out.Status {
		case dispatch.StatusDelivered:
			res.Counts.Delivered++
		case dispatch.StatusAlreadyDelivered:
			res.Counts.AlreadyDelivered++
		default:
			res.Counts.Failed++
			logging.Warn(s.logger, "delivery failed",
				logging.FieldRecipient, rcpt.ID,
				logging.FieldAttempt, out.Attempts,
				"reason", out.Reason)
		}
	}

	// Deciding: all-AlreadyDelivered on what should be a first send means
	// the transport is configured to suppress repeats; committing would
	// paper over the misconfiguration.
	res.State = StateDeciding
	c := res.Counts
	if c.AlreadyDelivered == c.Total() && c.Delivered == 0 && c.Failed == 0 {
		res.State = StateFatal
		res.Reason = "every attempt reported already-delivered on a first send; transport looks misconfigured"
		res.Err = errors.New(res.Reason)
		return res
	}

	if c.EffectiveRate() < s.cfg.SuccessThreshold {
		res.State = StateDeferred
		res.Reason = fmt.Sprintf("effective rate %.2f below threshold %.2f; whole batch deferred for retry",
			c.EffectiveRate(), s.cfg.SuccessThreshold)
		return res
	}

	return s.commit(res)
}

// commit persists the new keys. A commit failure after deliveries happened is
// the delivered-but-unrecorded hazard and is reported at its own severity.
func (s *Session) commit(res Result) Result {
	err := s.ledger.Commit(res.NewKeys)
	s.metrics.RecordLedgerCommit(err)
	if err != nil {
		if res.Counts.Delivered > 0 {
			res.State = StateFatal
			res.Reason = "notifications were delivered but the ledger commit failed; retrying blindly would duplicate sends"
			res.Err = fmt.Errorf("%w: %v", ErrUnrecordedDelivery, err)
			return res
		}
		// Nothing was delivered, so retrying the session is safe.
		res.State = StateDeferred
		res.Reason = "ledger commit failed before any delivery"
		res.Err = fmt.Errorf("commit ledger: %w", err)
		return res
	}
	res.State = StateCommitted
	return res
}

func formatViolations(violations []validate.Violation) string {
	out := ""
	for i, v := range violations {
		if i > 0 {
			out += "; "
		}
		out += v.String()
	}
	return out
}
