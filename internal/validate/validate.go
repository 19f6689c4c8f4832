// Package validate applies sanity rules to candidate scoring events before
// they are allowed to trigger any external side effect.
package validate

import (
	"fmt"
	"time"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/timeutil"
)

// Violation describes one failed check on a candidate event.
type Violation struct {
	Field  string
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}

// Validator checks candidate events against plausibility rules. It is pure:
// validation never mutates the event and has no side effects.
type Validator struct {
	now func() time.Time
	loc *time.Location
}

// New constructs a Validator anchored to the US Eastern reference timezone.
func New() *Validator {
	return &Validator{
		now: time.Now,
		loc: timeutil.Eastern(),
	}
}

// WithClock overrides the time source. Intended for tests.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate returns every violation found on the event. An empty slice means
// the event is valid. Checks are independent and all reported together so
// operators see the full picture rather than the first failure.
func (v *Validator) Validate(ev events.ScoringEvent) []Violation {
	var violations []Violation

	if ev.Player == "" {
		violations = append(violations, Violation{Field: "player", Reason: "required"})
	}

	violations = append(violations, v.checkDate(ev.Date)...)
	violations = append(violations, checkTeam(ev.Team)...)
	violations = append(violations, checkPoints(ev.Points)...)

	return violations
}

func (v *Validator) checkDate(date string) []Violation {
	if date == "" {
		return []Violation{{Field: "date", Reason: "required"}}
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return []Violation{{Field: "date", Reason: fmt.Sprintf("not a %s date: %v", timeutil.DateLayout, err)}}
	}

	// YYYY-MM-DD compares correctly as a string.
	nowEastern := v.now().In(v.loc)
	today := timeutil.FormatDate(nowEastern)
	if date > today {
		return []Violation{{Field: "date", Reason: fmt.Sprintf("in the future (today is %s)", today)}}
	}

	seasonStart := timeutil.FormatDate(timeutil.SeasonStart(nowEastern))
	if date < seasonStart {
		return []Violation{{Field: "date", Reason: fmt.Sprintf("before season start %s", seasonStart)}}
	}
	return nil
}

func checkTeam(team string) []Violation {
	if team == "" {
		return []Violation{{Field: "team", Reason: "required"}}
	}
	if len(team) < 2 || len(team) > 4 {
		return []Violation{{Field: "team", Reason: "must be 2-4 characters"}}
	}
	for _, r := range team {
		if r < 'A' || r > 'Z' {
			return []Violation{{Field: "team", Reason: "must be uppercase letters"}}
		}
	}
	return nil
}

func checkPoints(points int) []Violation {
	switch {
	case points > events.MaxPoints:
		return []Violation{{Field: "points", Reason: fmt.Sprintf("%d is impossible (max plausible is %d); likely upstream corruption", points, events.MaxPoints)}}
	case points < events.MinPoints:
		return []Violation{{Field: "points", Reason: fmt.Sprintf("%d is below the %d-point threshold", points, events.MinPoints)}}
	default:
		return nil
	}
}
