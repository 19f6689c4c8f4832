package config

const (
	envLedgerPath      = "LEDGER_PATH"
	envClubPath        = "CLUB_PATH"
	envSubscribersPath = "SUBSCRIBERS_PATH"

	defaultLedgerPath      = "data/emails.json"
	defaultClubPath        = "data/50_club.json"
	defaultSubscribersPath = "data/subscribers.json"
)

// StorageConfig locates the durable JSON artifacts.
type StorageConfig struct {
	LedgerPath      string
	ClubPath        string
	SubscribersPath string
}

func loadStorage() StorageConfig {
	return StorageConfig{
		LedgerPath:      envOrDefault(envLedgerPath, defaultLedgerPath),
		ClubPath:        envOrDefault(envClubPath, defaultClubPath),
		SubscribersPath: envOrDefault(envSubscribersPath, defaultSubscribersPath),
	}
}
