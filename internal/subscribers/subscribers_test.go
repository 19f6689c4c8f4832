package subscribers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "subscribers.json"))
}

func TestAddAssignsToken(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Add("fan@example.com")
	if err != nil {
		t.Fatalf("expected add to succeed, got %v", err)
	}
	if entry.UnsubscribeToken == "" {
		t.Fatal("expected unsubscribe token")
	}
	if entry.SubscribedDate == "" {
		t.Fatal("expected subscribed date")
	}

	roster, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(roster) != 1 || roster[0].Email != "fan@example.com" {
		t.Fatalf("unexpected roster %+v", roster)
	}
}

func TestAddRejectsDuplicateCaseInsensitively(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add("fan@example.com"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := s.Add("FAN@example.com"); !errors.Is(err, ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestRemoveByEmail(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Add("fan@example.com"); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove("FAN@EXAMPLE.COM"); err != nil {
		t.Fatalf("expected remove to succeed, got %v", err)
	}
	if err := s.Remove("fan@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestRemoveByToken(t *testing.T) {
	s := newTestStore(t)
	entry, err := s.Add("fan@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add("other@example.com"); err != nil {
		t.Fatal(err)
	}

	email, err := s.RemoveByToken(entry.UnsubscribeToken)
	if err != nil {
		t.Fatalf("expected token removal, got %v", err)
	}
	if email != "fan@example.com" {
		t.Fatalf("unexpected removed email %s", email)
	}

	if _, err := s.RemoveByToken("no-such-token"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	roster, _ := s.List()
	if len(roster) != 1 || roster[0].Email != "other@example.com" {
		t.Fatalf("unexpected roster after removal %+v", roster)
	}
}

func TestFetchAllExposesRosterAsRecipients(t *testing.T) {
	s := newTestStore(t)
	entry, err := s.Add("fan@example.com")
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(got) != 1 || got[0].Email != "fan@example.com" || got[0].ID != entry.UnsubscribeToken {
		t.Fatalf("unexpected recipients %+v", got)
	}
}

func TestFetchAllEmptyRosterIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	got, err := s.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("expected empty roster without error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no recipients, got %+v", got)
	}
}
