package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nba-alert-service/internal/config"
	"nba-alert-service/internal/logging"
	"nba-alert-service/internal/metrics"
	"nba-alert-service/internal/server"
)

func watchCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run scan and dispatch cycles on an interval with ops endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			recorder, promHandler, metricsStop, err := metrics.Setup(ctx, metrics.TelemetryConfig{
				Enabled:      cfg.Metrics.Enabled,
				Port:         cfg.Metrics.Port,
				ServiceName:  cfg.Metrics.ServiceName,
				OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
				OtlpInsecure: cfg.Metrics.OtlpInsecure,
			})
			if err != nil {
				return err
			}

			a := newApp(cfg, logger, recorder)
			watcher := server.NewWatcher(server.RunnerFunc(a.runOnce), logger, cfg.WatchInterval)
			ops := server.NewOps(cfg.OpsPort, watcher.Status, promHandler, logger)

			watcher.Start(ctx)
			ops.Start(func(error) { stop() })

			<-ctx.Done()
			logging.Info(logger, "shutdown signal received")

			shutdownCtx := context.Background()
			if err := watcher.Stop(shutdownCtx); err != nil {
				logging.Warn(logger, "watcher stop failed", "error", err)
			}
			if err := ops.Shutdown(shutdownCtx); err != nil {
				logging.Warn(logger, "ops server shutdown failed", "error", err)
			}
			if metricsStop != nil {
				if err := metricsStop(shutdownCtx); err != nil {
					logging.Warn(logger, "metrics shutdown failed", "error", err)
				}
			}
			return nil
		},
	}
}
