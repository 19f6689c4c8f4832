package events

import "testing"

func TestAlertKeyShape(t *testing.T) {
	ev := ScoringEvent{Date: "2024-01-10", Player: "A. Player", Team: "BOS", Points: 50, Opponent: "LAL"}
	if got := ev.AlertKey(); got != "2024-01-10_A. Player_50" {
		t.Fatalf("unexpected alert key: %s", got)
	}
}

func TestAlertKeyStable(t *testing.T) {
	ev := ScoringEvent{Date: "2024-02-01", Player: "Luka Doncic", Team: "DAL", Points: 73, Opponent: "ATL"}
	if ev.AlertKey() != ev.AlertKey() {
		t.Fatal("expected alert key to be deterministic")
	}
}

func TestAlertKeyIgnoresNonIdentityFields(t *testing.T) {
	a := ScoringEvent{Date: "2024-02-01", Player: "Luka Doncic", Points: 73, Team: "DAL", Opponent: "ATL"}
	b := ScoringEvent{Date: "2024-02-01", Player: "Luka Doncic", Points: 73, Team: "XXX", Opponent: "YYY"}
	if a.AlertKey() != b.AlertKey() {
		t.Fatal("expected identical keys for same (date, player, points)")
	}
}

func TestAlertKeyDistinctAcrossTriples(t *testing.T) {
	base := ScoringEvent{Date: "2024-02-01", Player: "Luka Doncic", Points: 73}
	variants := []ScoringEvent{
		{Date: "2024-02-02", Player: "Luka Doncic", Points: 73},
		{Date: "2024-02-01", Player: "Kyrie Irving", Points: 73},
		{Date: "2024-02-01", Player: "Luka Doncic", Points: 60},
	}
	for _, v := range variants {
		if v.AlertKey() == base.AlertKey() {
			t.Fatalf("expected distinct key for %+v", v)
		}
	}
}
