package config

import "time"

const (
	envSuccessThreshold = "ALERT_SUCCESS_THRESHOLD"
	envFreshnessDays    = "ALERT_FRESHNESS_DAYS"
	envDispatchPacing   = "ALERT_DISPATCH_PER_SECOND"
	envDispatchAttempts = "ALERT_DISPATCH_ATTEMPTS"
	envDispatchBackoff  = "ALERT_DISPATCH_BACKOFF"

	defaultSuccessThreshold = 0.95
	defaultFreshnessDays    = 1
	defaultDispatchPacing   = 5.0
	defaultDispatchAttempts = 3
	defaultDispatchBackoff  = 2 * Duration(time.Second)
)

// AlertsConfig controls session gating and per-recipient dispatch behavior.
type AlertsConfig struct {
	SuccessThreshold    float64
	FreshnessWindowDays int
	PacingPerSecond     float64
	MaxAttempts         int
	InitialBackoff      Duration
}

func loadAlerts() AlertsConfig {
	return AlertsConfig{
		SuccessThreshold:    floatEnvOrDefault(envSuccessThreshold, defaultSuccessThreshold),
		FreshnessWindowDays: intEnvOrDefault(envFreshnessDays, defaultFreshnessDays),
		PacingPerSecond:     floatEnvOrDefault(envDispatchPacing, defaultDispatchPacing),
		MaxAttempts:         intEnvOrDefault(envDispatchAttempts, defaultDispatchAttempts),
		InitialBackoff:      durationEnvOrDefault(envDispatchBackoff, defaultDispatchBackoff),
	}
}
