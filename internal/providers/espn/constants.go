package espn

import "time"

const (
	defaultBaseURL       = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba"
	defaultHTTPTimeout   = 10 * time.Second
	defaultScoreboardCap = 1000

	statusFinal = "STATUS_FINAL"

	// Box score stat columns: [MIN, PTS, FG, 3PT, FT, REB, AST, ...].
	pointsStatIndex = 1
)
