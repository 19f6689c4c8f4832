package espn

const providerName = "espn"

type scoreboardResponse struct {
	Events []eventResponse `json:"events"`
}

type eventResponse struct {
	ID           string                `json:"id"`
	Date         string                `json:"date"`
	Name         string                `json:"name"`
	ShortName    string                `json:"shortName"`
	Status       statusResponse        `json:"status"`
	Competitions []competitionResponse `json:"competitions"`
}

type statusResponse struct {
	Type statusTypeResponse `json:"type"`
}

type statusTypeResponse struct {
	Name string `json:"name"`
}

type competitionResponse struct {
	Competitors []competitorResponse `json:"competitors"`
}

type competitorResponse struct {
	HomeAway string       `json:"homeAway"`
	Team     teamResponse `json:"team"`
}

type teamResponse struct {
	Abbreviation string `json:"abbreviation"`
}

type summaryResponse struct {
	Boxscore boxscoreResponse `json:"boxscore"`
}

type boxscoreResponse struct {
	Players []teamPlayersResponse `json:"players"`
}

type teamPlayersResponse struct {
	Team       teamResponse        `json:"team"`
	Statistics []statGroupResponse `json:"statistics"`
}

type statGroupResponse struct {
	Athletes []athleteLineResponse `json:"athletes"`
}

type athleteLineResponse struct {
	Athlete athleteResponse `json:"athlete"`
	Stats   []string        `json:"stats"`
}

type athleteResponse struct {
	DisplayName string `json:"displayName"`
}
