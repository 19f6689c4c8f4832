package config

// Config holds runtime configuration for the alert service.
type Config struct {
	Provider      string
	LogLevel      string
	LogFormat     string
	WatchInterval Duration
	OpsPort       string
	Alerts        AlertsConfig
	ESPN          ESPNConfig
	EmailOctopus  EmailOctopusConfig
	Storage       StorageConfig
	Metrics       MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Provider:      envOrDefault(envProvider, defaultProvider),
		LogLevel:      envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:     envOrDefault(envLogFormat, defaultLogFormat),
		WatchInterval: durationEnvOrDefault(envWatchInterval, defaultWatchInterval),
		OpsPort:       envOrDefault(envOpsPort, defaultOpsPort),
		Alerts:        loadAlerts(),
		ESPN:          loadESPN(),
		EmailOctopus:  loadEmailOctopus(),
		Storage:       loadStorage(),
		Metrics:       loadMetrics(),
	}
}
