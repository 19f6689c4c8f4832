package config

const (
	envOctopusAPIKey    = "EMAILOCTOPUS_API_KEY"
	envOctopusListID    = "EMAILOCTOPUS_LIST_ID"
	envOctopusBaseURL   = "EMAILOCTOPUS_BASE_URL"
	envOctopusFromName  = "EMAILOCTOPUS_FROM_NAME"
	envOctopusFromEmail = "EMAILOCTOPUS_FROM_EMAIL"

	defaultOctopusBaseURL   = "https://emailoctopus.com/api/1.6"
	defaultOctopusFromName  = "NBA 50-Point Alert"
	defaultOctopusFromEmail = "alerts@nba50alert.com"
)

// EmailOctopusConfig controls the hosted mailing list transport. An empty
// APIKey or ListID means the transport is not configured and local delivery
// paths are used instead.
type EmailOctopusConfig struct {
	APIKey    string
	ListID    string
	BaseURL   string
	FromName  string
	FromEmail string
}

// Configured reports whether the hosted transport has credentials.
func (c EmailOctopusConfig) Configured() bool {
	return c.APIKey != "" && c.ListID != ""
}

func loadEmailOctopus() EmailOctopusConfig {
	return EmailOctopusConfig{
		APIKey:    envOrDefault(envOctopusAPIKey, ""),
		ListID:    envOrDefault(envOctopusListID, ""),
		BaseURL:   envOrDefault(envOctopusBaseURL, defaultOctopusBaseURL),
		FromName:  envOrDefault(envOctopusFromName, defaultOctopusFromName),
		FromEmail: envOrDefault(envOctopusFromEmail, defaultOctopusFromEmail),
	}
}
