package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Provider != defaultProvider {
		t.Fatalf("expected default provider %s, got %s", defaultProvider, cfg.Provider)
	}
	if cfg.WatchInterval != defaultWatchInterval {
		t.Fatalf("expected default watch interval %s, got %s", defaultWatchInterval, cfg.WatchInterval)
	}
	if cfg.Alerts.SuccessThreshold != defaultSuccessThreshold {
		t.Fatalf("expected default threshold %v, got %v", defaultSuccessThreshold, cfg.Alerts.SuccessThreshold)
	}
	if cfg.Alerts.FreshnessWindowDays != defaultFreshnessDays {
		t.Fatalf("expected default freshness %d, got %d", defaultFreshnessDays, cfg.Alerts.FreshnessWindowDays)
	}
	if cfg.ESPN.BaseURL != defaultEspnBaseURL {
		t.Fatalf("expected default espn base url, got %s", cfg.ESPN.BaseURL)
	}
	if cfg.Storage.LedgerPath != defaultLedgerPath {
		t.Fatalf("expected default ledger path, got %s", cfg.Storage.LedgerPath)
	}
	if cfg.EmailOctopus.Configured() {
		t.Fatal("expected emailoctopus to be unconfigured by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envProvider, "espn")
	t.Setenv(envWatchInterval, "30m")
	t.Setenv(envSuccessThreshold, "0.9")
	t.Setenv(envDispatchPacing, "2.5")
	t.Setenv(envOctopusAPIKey, "key")
	t.Setenv(envOctopusListID, "list")
	t.Setenv(envLedgerPath, "/tmp/emails.json")

	cfg := Load()

	if cfg.Provider != "espn" {
		t.Fatalf("expected provider espn, got %s", cfg.Provider)
	}
	if cfg.WatchInterval != 30*time.Minute {
		t.Fatalf("expected watch interval 30m, got %s", cfg.WatchInterval)
	}
	if cfg.Alerts.SuccessThreshold != 0.9 {
		t.Fatalf("expected threshold 0.9, got %v", cfg.Alerts.SuccessThreshold)
	}
	if cfg.Alerts.PacingPerSecond != 2.5 {
		t.Fatalf("expected pacing 2.5, got %v", cfg.Alerts.PacingPerSecond)
	}
	if !cfg.EmailOctopus.Configured() {
		t.Fatal("expected emailoctopus to be configured")
	}
	if cfg.Storage.LedgerPath != "/tmp/emails.json" {
		t.Fatalf("expected ledger path override, got %s", cfg.Storage.LedgerPath)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv(envWatchInterval, "not-a-duration")
	t.Setenv(envSuccessThreshold, "-1")
	t.Setenv(envDispatchAttempts, "zero")

	cfg := Load()

	if cfg.WatchInterval != defaultWatchInterval {
		t.Fatalf("expected default watch interval on invalid value, got %s", cfg.WatchInterval)
	}
	if cfg.Alerts.SuccessThreshold != defaultSuccessThreshold {
		t.Fatalf("expected default threshold on invalid value, got %v", cfg.Alerts.SuccessThreshold)
	}
	if cfg.Alerts.MaxAttempts != defaultDispatchAttempts {
		t.Fatalf("expected default attempts on invalid value, got %d", cfg.Alerts.MaxAttempts)
	}
}
