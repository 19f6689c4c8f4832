// Package ledger owns the durable record of which alert keys have already
// triggered a delivered notification. The persisted artifact is a single JSON
// file replaced atomically on every commit; no other component writes it.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"nba-alert-service/internal/timeutil"
)

// fileShape is the persisted form of the ledger.
type fileShape struct {
	SentAlerts  *[]string `json:"sent_alerts"`
	LastUpdated string    `json:"last_updated,omitempty"`
}

// CorruptError reports a structurally invalid ledger artifact. The corrupt
// file is preserved at BackupPath for manual repair; the ledger is never
// silently reset because that would re-deliver every past notification.
type CorruptError struct {
	Path       string
	BackupPath string
	Reason     string
}

func (e *CorruptError) Error() string {
	msg := fmt.Sprintf("ledger corrupt at %s: %s", e.Path, e.Reason)
	if e.BackupPath != "" {
		msg += fmt.Sprintf(" (artifact preserved at %s)", e.BackupPath)
	}
	return msg
}

// Ledger is the in-memory view of the delivery ledger, tied to its file.
type Ledger struct {
	path string
	keys map[string]struct{}
	now  func() time.Time
}

// Load reads the ledger from path. A missing file is the first-run case and
// yields a fresh empty ledger. An existing file that fails structural
// validation is copied aside and reported as a *CorruptError; callers must
// treat that as fatal.
func Load(path string) (*Ledger, error) {
	l := &Ledger{
		path: path,
		keys: make(map[string]struct{}),
		now:  time.Now,
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}

	keys, reason := decode(raw)
	if reason != "" {
		backup := preserveCorrupt(path, raw, l.now())
		return nil, &CorruptError{Path: path, BackupPath: backup, Reason: reason}
	}

	for _, k := range keys {
		l.keys[k] = struct{}{}
	}
	return l, nil
}

// decode structurally validates raw ledger bytes and returns the key set.
// A non-empty reason means the artifact is corrupt.
func decode(raw []byte) (keys []string, reason string) {
	var shape fileShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, fmt.Sprintf("not the expected shape: %v", err)
	}
	if shape.SentAlerts == nil {
		return nil, "sent_alerts is missing or not a list"
	}
	return *shape.SentAlerts, ""
}

// preserveCorrupt copies the corrupt artifact aside for inspection. Returns
// the backup path or "" if the copy itself failed.
func preserveCorrupt(path string, raw []byte, now time.Time) string {
	backup := fmt.Sprintf("%s.corrupt-%s", path, now.UTC().Format("20060102T150405Z"))
	if err := os.WriteFile(backup, raw, 0o644); err != nil {
		return ""
	}
	return backup
}

// Contains reports whether the alert key has already been dispatched.
func (l *Ledger) Contains(key string) bool {
	_, ok := l.keys[key]
	return ok
}

// Len returns the number of recorded keys.
func (l *Ledger) Len() int {
	return len(l.keys)
}

// Path returns the canonical artifact location.
func (l *Ledger) Path() string {
	return l.path
}

// Commit durably persists the ledger with newKeys unioned in. The write is
// atomic: temp file, fsync, re-read and re-validate the temp artifact, then
// rename over the canonical location. A crash mid-write never leaves a
// half-written ledger. A failed Commit means dispatch effects happened but
// were not recorded; callers must surface that, not swallow it.
func (l *Ledger) Commit(newKeys []string) error {
	union := make(map[string]struct{}, len(l.keys)+len(newKeys))
	for k := range l.keys {
		union[k] = struct{}{}
	}
	for _, k := range newKeys {
		union[k] = struct{}{}
	}

	sorted := make([]string, 0, len(union))
	for k := range union {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	shape := fileShape{
		SentAlerts:  &sorted,
		LastUpdated: l.now().In(timeutil.Eastern()).Format(time.RFC3339),
	}
	data, err := json.MarshalIndent(shape, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := writeSynced(tmp, data); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write ledger temp: %w", err)
	}

	// Re-validate what actually hit the disk before replacing the canonical file.
	written, err := os.ReadFile(tmp)
	if err != nil {
		os.Remove(tmp)
		return fmt.Errorf("re-read ledger temp: %w", err)
	}
	if _, reason := decode(written); reason != "" {
		os.Remove(tmp)
		return fmt.Errorf("ledger re-validation failed, commit aborted: %s", reason)
	}

	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace ledger: %w", err)
	}

	l.keys = union
	return nil
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
