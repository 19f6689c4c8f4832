// Package subscribers manages the local subscriber roster: add, remove,
// remove by unsubscribe token, list. The roster doubles as a file-backed
// recipient source for runs that do not use a hosted mailing list.
package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"nba-alert-service/internal/recipients"
)

var (
	// ErrAlreadySubscribed indicates the email is already on the roster.
	ErrAlreadySubscribed = errors.New("already subscribed")
	// ErrNotFound indicates no roster entry matched.
	ErrNotFound = errors.New("subscriber not found")
)

// Subscriber is one roster entry. The unsubscribe token is handed out on
// signup and accepted back without requiring the email address.
type Subscriber struct {
	Email            string `json:"email"`
	SubscribedDate   string `json:"subscribed_date"`
	UnsubscribeToken string `json:"unsubscribe_token"`
}

type fileShape struct {
	Subscribers []Subscriber `json:"subscribers"`
}

// Store reads and writes the roster file at a fixed path.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a store for the roster file at path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Add registers a new subscriber and returns the entry with its fresh
// unsubscribe token. Email matching is case-insensitive.
func (s *Store) Add(email string) (*Subscriber, error) {
	roster, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, sub := range roster {
		if strings.EqualFold(sub.Email, email) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadySubscribed, email)
		}
	}

	entry := Subscriber{
		Email:            email,
		SubscribedDate:   s.now().Format(time.RFC3339),
		UnsubscribeToken: uuid.NewString(),
	}
	roster = append(roster, entry)
	if err := s.save(roster); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Remove drops a subscriber by email, case-insensitively.
func (s *Store) Remove(email string) error {
	roster, err := s.load()
	if err != nil {
		return err
	}

	kept := roster[:0]
	for _, sub := range roster {
		if strings.EqualFold(sub.Email, email) {
			continue
		}
		kept = append(kept, sub)
	}
	if len(kept) == len(roster) {
		return fmt.Errorf("%w: %s", ErrNotFound, email)
	}
	return s.save(kept)
}

// RemoveByToken drops the subscriber holding the unsubscribe token and
// returns the removed email.
func (s *Store) RemoveByToken(token string) (string, error) {
	roster, err := s.load()
	if err != nil {
		return "", err
	}

	removed := ""
	kept := roster[:0]
	for _, sub := range roster {
		if sub.UnsubscribeToken == token {
			removed = sub.Email
			continue
		}
		kept = append(kept, sub)
	}
	if removed == "" {
		return "", fmt.Errorf("%w: token %s", ErrNotFound, token)
	}
	return removed, s.save(kept)
}

// List returns the full roster in file order.
func (s *Store) List() ([]Subscriber, error) {
	return s.load()
}

// FetchAll exposes the roster as a recipient source. Read failures map to
// recipients.ErrUnavailable so sessions defer rather than dispatch to nobody.
func (s *Store) FetchAll(ctx context.Context) ([]recipients.Recipient, error) {
	_ = ctx

	roster, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", recipients.ErrUnavailable, err)
	}

	out := make([]recipients.Recipient, 0, len(roster))
	for _, sub := range roster {
		out = append(out, recipients.Recipient{ID: sub.UnsubscribeToken, Email: sub.Email})
	}
	return out, nil
}

func (s *Store) load() ([]Subscriber, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read subscribers %s: %w", s.path, err)
	}

	var shape fileShape
	if err := json.Unmarshal(raw, &shape); err != nil {
		return nil, fmt.Errorf("decode subscribers %s: %w", s.path, err)
	}
	return shape.Subscribers, nil
}

func (s *Store) save(roster []Subscriber) error {
	if roster == nil {
		roster = []Subscriber{}
	}
	data, err := json.MarshalIndent(fileShape{Subscribers: roster}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode subscribers: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create subscribers dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write subscribers temp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace subscribers: %w", err)
	}
	return nil
}
