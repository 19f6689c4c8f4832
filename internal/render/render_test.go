package render

import (
	"strings"
	"testing"

	"nba-alert-service/internal/domain/events"
)

func sampleBatch() []events.ScoringEvent {
	return []events.ScoringEvent{
		{Date: "2024-01-10", Player: "A. Player", Team: "BOS", Points: 52, Opponent: "LAL"},
		{Date: "2024-01-10", Player: "D. Star", Team: "LAL", Points: 50, Opponent: "BOS"},
	}
}

func TestSubjectLeadsWithFirstScorer(t *testing.T) {
	got := Subject(sampleBatch())
	if got != "DoorDash 50% OFF Today! A. Player scored 52 points" {
		t.Fatalf("unexpected subject %q", got)
	}
	if Subject(nil) != "NBA 50-Point Alert" {
		t.Fatalf("unexpected empty-batch subject %q", Subject(nil))
	}
}

func TestTextListsEveryScorer(t *testing.T) {
	text, err := Text(sampleBatch())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(text, "A. Player (BOS) scored 52 points vs LAL on January 10, 2024!") {
		t.Fatalf("missing first scorer line:\n%s", text)
	}
	if !strings.Contains(text, "D. Star (LAL) scored 50 points vs BOS") {
		t.Fatalf("missing second scorer line:\n%s", text)
	}
	if !strings.Contains(text, "Use code: NBA50") {
		t.Fatalf("missing promo code:\n%s", text)
	}
}

func TestHTMLEscapesPlayerNames(t *testing.T) {
	batch := []events.ScoringEvent{
		{Date: "2024-01-10", Player: "<script>alert(1)</script>", Team: "BOS", Points: 51, Opponent: "LAL"},
	}
	html, err := HTML(batch)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("expected player name to be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Fatalf("expected escaped entity in output:\n%s", html)
	}
}

func TestMessageCarriesLeadAlertKey(t *testing.T) {
	msg := Message(sampleBatch())
	if msg.Key != "2024-01-10_A. Player_52" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	if msg.TextBody == "" || msg.HTMLBody == "" {
		t.Fatal("expected both bodies rendered")
	}
	if !strings.Contains(msg.HTMLBody, "D. Star") {
		t.Fatal("expected all scorers in html body")
	}
}

func TestFormatDateFallsBackToRaw(t *testing.T) {
	if got := formatDate("not-a-date"); got != "not-a-date" {
		t.Fatalf("expected raw fallback, got %q", got)
	}
}
