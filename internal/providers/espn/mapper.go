package espn

import (
	"strconv"
	"time"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/timeutil"
)

func mapFinalGame(ev eventResponse) finalGame {
	g := finalGame{
		id:   ev.ID,
		date: gameDate(ev.Date),
	}
	if len(ev.Competitions) > 0 {
		for _, comp := range ev.Competitions[0].Competitors {
			switch comp.HomeAway {
			case "home":
				g.homeTeam = comp.Team.Abbreviation
			case "away":
				g.awayTeam = comp.Team.Abbreviation
			}
		}
	}
	return g
}

// gameDate converts the event's UTC timestamp to the US Eastern game date.
// Late tip-offs cross midnight UTC, so the raw date would land a day late.
func gameDate(raw string) string {
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		// Scoreboard timestamps sometimes omit seconds.
		parsed, err = time.Parse("2006-01-02T15:04Z07:00", raw)
		if err != nil {
			return ""
		}
	}
	return timeutil.FormatDate(parsed.Add(-5 * time.Hour))
}

func mapScorers(payload summaryResponse, g finalGame) []events.ScoringEvent {
	scorers := make([]events.ScoringEvent, 0)
	for _, team := range payload.Boxscore.Players {
		abbr := team.Team.Abbreviation
		opponent := g.awayTeam
		if abbr == g.awayTeam {
			opponent = g.homeTeam
		}

		for _, group := range team.Statistics {
			for _, line := range group.Athletes {
				points, ok := parsePoints(line.Stats)
				if !ok || points < events.MinPoints {
					continue
				}
				scorers = append(scorers, events.ScoringEvent{
					Date:     g.date,
					Player:   line.Athlete.DisplayName,
					Team:     abbr,
					Points:   points,
					Opponent: opponent,
				})
			}
		}
	}
	return scorers
}

func parsePoints(stats []string) (int, bool) {
	if len(stats) <= pointsStatIndex {
		return 0, false
	}
	raw := stats[pointsStatIndex]
	if raw == "" {
		return 0, true
	}
	points, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return points, true
}
