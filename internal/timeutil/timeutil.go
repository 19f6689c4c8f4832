package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// seasonStartMonth is the month the NBA season tips off.
const seasonStartMonth = time.October

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Eastern returns the US Eastern location used as the reference timezone for
// game dates. Falls back to a fixed UTC-5 zone when tzdata is unavailable.
func Eastern() *time.Location {
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		return loc
	}
	return time.FixedZone("ET", -5*60*60)
}

// SeasonStart returns the first day of the current season's starting month.
// If now precedes that month, the season started the previous calendar year.
func SeasonStart(now time.Time) time.Time {
	year := now.Year()
	if now.Month() < seasonStartMonth {
		year--
	}
	return time.Date(year, seasonStartMonth, 1, 0, 0, 0, 0, now.Location())
}

// SeasonLabel returns the display label for the season containing now,
// e.g. "2024-25".
func SeasonLabel(now time.Time) string {
	start := SeasonStart(now)
	end := start.AddDate(1, 0, 0)
	return start.Format("2006") + "-" + end.Format("06")
}
