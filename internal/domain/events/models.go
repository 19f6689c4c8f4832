// Package events contains the canonical scoring-event shapes shared across
// providers, the club store, and the dispatch pipeline.
package events

import "fmt"

// Scoring bounds for a plausible NBA single-game performance. Values above
// MaxPoints are treated as upstream corruption, not a record.
const (
	MinPoints = 50
	MaxPoints = 100
)

// ScoringEvent represents one qualifying 50-point performance. Events are
// immutable once produced by a provider; they are only ever appended to the
// club file and the delivery ledger.
type ScoringEvent struct {
	Date     string `json:"date"` // game day, YYYY-MM-DD, no time-of-day
	Player   string `json:"player"`
	Team     string `json:"team"` // 2-4 letter uppercase code
	Points   int    `json:"points"`
	Opponent string `json:"opponent"`
}

// AlertKey returns the deduplication identity for the event. Two events with
// the same key are the same notification opportunity even if other fields
// differ.
func (e ScoringEvent) AlertKey() string {
	return fmt.Sprintf("%s_%s_%d", e.Date, e.Player, e.Points)
}
