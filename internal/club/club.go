// Package club maintains the season-long record of 50-point performances.
// Unlike the delivery ledger it is informational, not safety-critical: a lost
// club file re-scans from the season start but never re-sends an alert.
package club

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/timeutil"
)

// Document is the persisted shape of the season club file.
type Document struct {
	Season          string               `json:"season"`
	LastUpdated     string               `json:"lastUpdated"`
	LastCheckedDate string               `json:"lastCheckedDate"`
	TotalGames      int                  `json:"totalGames"`
	Scorers         []events.ScoringEvent `json:"scorers"`
}

// Store reads and writes the club document at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a store for the club file at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Path returns the canonical artifact location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the current document. A missing or unreadable file yields nil
// with no error, which callers treat as the first-run full-scan case.
func (s *Store) Load() (*Document, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read club file %s: %w", s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// Stale or hand-edited files are regenerated by a full scan.
		return nil, nil
	}
	return &doc, nil
}

// ScanStart returns the first date the next incremental update should cover:
// the day after lastCheckedDate, or the season start on a first run or when
// the season has rolled over.
func (s *Store) ScanStart(doc *Document) string {
	nowET := s.now().In(timeutil.Eastern())
	seasonStart := timeutil.FormatDate(timeutil.SeasonStart(nowET))

	if doc == nil || doc.LastCheckedDate == "" {
		return seasonStart
	}
	if doc.Season != timeutil.SeasonLabel(nowET) {
		return seasonStart
	}

	checked, err := timeutil.ParseDate(doc.LastCheckedDate)
	if err != nil {
		return seasonStart
	}
	return timeutil.FormatDate(checked.AddDate(0, 0, 1))
}

// Update merges newly scanned performances into doc and returns the next
// document. Duplicate (date, player, points) entries collapse to one;
// scorers sort newest first. doc may be nil on a first run.
func (s *Store) Update(doc *Document, scanned []events.ScoringEvent, gamesScanned int, checkedThrough string) *Document {
	nowET := s.now().In(timeutil.Eastern())

	merged := make([]events.ScoringEvent, 0, len(scanned))
	totalGames := gamesScanned
	if doc != nil {
		merged = append(merged, doc.Scorers...)
		totalGames += doc.TotalGames
	}
	merged = append(merged, scanned...)

	seen := make(map[string]struct{}, len(merged))
	unique := merged[:0]
	for _, ev := range merged {
		key := ev.AlertKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, ev)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Date != unique[j].Date {
			return unique[i].Date > unique[j].Date
		}
		return unique[i].Points > unique[j].Points
	})

	return &Document{
		Season:          timeutil.SeasonLabel(nowET),
		LastUpdated:     nowET.Format(time.RFC3339),
		LastCheckedDate: checkedThrough,
		TotalGames:      totalGames,
		Scorers:         unique,
	}
}

// Save atomically replaces the club file with doc.
func (s *Store) Save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode club file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create club dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write club temp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace club file: %w", err)
	}
	return nil
}
