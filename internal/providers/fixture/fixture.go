package fixture

import (
	"context"
	"time"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/timeutil"
)

// Provider returns a static set of scoring events useful for local testing
// and bootstrapping without hitting the upstream API.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

// Name identifies the provider in logs and metrics.
func (p *Provider) Name() string { return "fixture" }

// FetchEvents returns a deterministic set of example performances dated to
// endDate, or to yesterday when no date is given.
func (p *Provider) FetchEvents(ctx context.Context, startDate, endDate string) ([]events.ScoringEvent, error) {
	_ = ctx
	_ = startDate

	date := endDate
	if date == "" {
		date = timeutil.FormatDate(p.now().In(timeutil.Eastern()).AddDate(0, 0, -1))
	}

	return []events.ScoringEvent{
		{
			Date:     date,
			Player:   "Jane Doe",
			Team:     "BOS",
			Points:   54,
			Opponent: "LAL",
		},
		{
			Date:     date,
			Player:   "John Smith",
			Team:     "GSW",
			Points:   51,
			Opponent: "MIA",
		},
	}, nil
}
