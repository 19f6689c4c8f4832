package config

import "time"

const (
	envEspnBaseURL       = "ESPN_BASE_URL"
	envEspnRetryAttempts = "ESPN_RETRY_ATTEMPTS"
	envEspnRetryBackoff  = "ESPN_RETRY_BACKOFF"
	envEspnCallInterval  = "ESPN_CALL_INTERVAL"

	defaultEspnBaseURL       = "https://site.api.espn.com/apis/site/v2/sports/basketball/nba"
	defaultEspnRetryAttempts = 3
	defaultEspnRetryBackoff  = 200 * Duration(time.Millisecond)
	// Box score scans fan out one summary call per game; pace them politely.
	defaultEspnCallInterval = 500 * Duration(time.Millisecond)
)

// ESPNConfig controls how we talk to the ESPN site API.
type ESPNConfig struct {
	BaseURL       string
	RetryAttempts int
	RetryBackoff  Duration
	CallInterval  Duration
}

func loadESPN() ESPNConfig {
	return ESPNConfig{
		BaseURL:       envOrDefault(envEspnBaseURL, defaultEspnBaseURL),
		RetryAttempts: intEnvOrDefault(envEspnRetryAttempts, defaultEspnRetryAttempts),
		RetryBackoff:  durationEnvOrDefault(envEspnRetryBackoff, defaultEspnRetryBackoff),
		CallInterval:  durationEnvOrDefault(envEspnCallInterval, defaultEspnCallInterval),
	}
}
