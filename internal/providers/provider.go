package providers

import (
	"context"
	"errors"

	"nba-alert-service/internal/domain/events"
)

// ErrProviderUnavailable indicates the provider cannot serve requests.
var ErrProviderUnavailable = errors.New("event provider unavailable")

// EventProvider defines how upstream scoring performances are fetched and
// normalized. Dates are YYYY-MM-DD strings in US Eastern time; both bounds
// are inclusive. Providers should interpret an empty startDate as endDate.
type EventProvider interface {
	FetchEvents(ctx context.Context, startDate, endDate string) ([]events.ScoringEvent, error)
}
