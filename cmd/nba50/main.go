// Command nba50 checks NBA box scores for 50-point performances and alerts
// subscribers exactly once per performance.
//
// Usage:
//
//	nba50 scan [--full]
//	nba50 dispatch
//	nba50 run
//	nba50 watch
//	nba50 subscribers add <email>
//	nba50 subscribers remove <email>
//	nba50 subscribers remove-token <token>
//	nba50 subscribers list
//
// Exit codes: 0 committed (or nothing to do), 1 deferred or failed, 2 alerts
// were delivered but could not be recorded — operator attention required
// before the next run.
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"nba-alert-service/internal/config"
	"nba-alert-service/internal/logging"
	"nba-alert-service/internal/session"
)

const appVersion = "dev"

const exitUnrecordedDelivery = 2

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "nba-alert-service",
		Version: appVersion,
	})

	root := &cobra.Command{
		Use:           "nba50",
		Short:         "NBA 50-point alert service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(scanCmd(cfg, logger))
	root.AddCommand(dispatchCmd(cfg, logger))
	root.AddCommand(runCmd(cfg, logger))
	root.AddCommand(watchCmd(cfg, logger))
	root.AddCommand(subscribersCmd(cfg, logger))

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		if errors.Is(err, session.ErrUnrecordedDelivery) {
			os.Exit(exitUnrecordedDelivery)
		}
		os.Exit(1)
	}
}
