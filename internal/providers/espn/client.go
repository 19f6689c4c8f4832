package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/providers"
	"nba-alert-service/internal/timeutil"
)

// Config controls how the ESPN client reaches the upstream API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client fetches completed games and box scores from the ESPN site API and
// maps qualifying performances to domain scoring events.
type Client struct {
	baseURL    string
	httpClient httpDoer
	now        func() time.Time
	loc        *time.Location

	lastGameCount int
}

// NewClient constructs an ESPN client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		now:        time.Now,
		loc:        timeutil.Eastern(),
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string { return providerName }

// GamesScanned reports how many final games the last FetchEvents covered.
// Not safe for concurrent fetches; the CLI scans sequentially.
func (c *Client) GamesScanned() int { return c.lastGameCount }

// FetchEvents retrieves all 50-point performances from completed games in the
// inclusive date range. An empty endDate means yesterday in US Eastern time;
// an empty startDate means a single-day scan of endDate.
func (c *Client) FetchEvents(ctx context.Context, startDate, endDate string) ([]events.ScoringEvent, error) {
	if endDate == "" {
		endDate = timeutil.FormatDate(c.now().In(c.loc).AddDate(0, 0, -1))
	}
	if startDate == "" {
		startDate = endDate
	}

	games, err := c.fetchCompletedGames(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	c.lastGameCount = len(games)

	all := make([]events.ScoringEvent, 0)
	for _, g := range games {
		scorers, err := c.fetchQualifyingScorers(ctx, g)
		if err != nil {
			// Some final games have no box score yet; skip and keep scanning.
			continue
		}
		all = append(all, scorers...)
	}
	return all, nil
}

type finalGame struct {
	id       string
	date     string
	homeTeam string
	awayTeam string
}

func (c *Client) fetchCompletedGames(ctx context.Context, startDate, endDate string) ([]finalGame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/scoreboard", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("dates", scoreboardDates(startDate, endDate))
	q.Set("limit", strconv.Itoa(defaultScoreboardCap))
	req.URL.RawQuery = q.Encode()

	var payload scoreboardResponse
	if err := c.doJSON(req, &payload); err != nil {
		return nil, err
	}

	games := make([]finalGame, 0, len(payload.Events))
	for _, ev := range payload.Events {
		if ev.Status.Type.Name != statusFinal {
			continue
		}
		games = append(games, mapFinalGame(ev))
	}
	return games, nil
}

func (c *Client) fetchQualifyingScorers(ctx context.Context, g finalGame) ([]events.ScoringEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/summary", nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	q.Set("event", g.id)
	q.Set("region", "us")
	q.Set("lang", "en")
	req.URL.RawQuery = q.Encode()

	var payload summaryResponse
	if err := c.doJSON(req, &payload); err != nil {
		return nil, err
	}

	return mapScorers(payload, g), nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("espn: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// scoreboardDates formats the dates parameter the ESPN scoreboard accepts:
// a single YYYYMMDD day or a YYYYMMDD-YYYYMMDD range.
func scoreboardDates(startDate, endDate string) string {
	start := compactDate(startDate)
	end := compactDate(endDate)
	if start == end {
		return start
	}
	return start + "-" + end
}

func compactDate(date string) string {
	return strings.ReplaceAll(date, "-", "")
}
