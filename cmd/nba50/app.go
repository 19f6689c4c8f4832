package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"nba-alert-service/internal/club"
	"nba-alert-service/internal/config"
	"nba-alert-service/internal/dispatch"
	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/ledger"
	"nba-alert-service/internal/logging"
	"nba-alert-service/internal/metrics"
	"nba-alert-service/internal/providers"
	"nba-alert-service/internal/providers/espn"
	"nba-alert-service/internal/providers/fixture"
	"nba-alert-service/internal/recipients"
	"nba-alert-service/internal/render"
	"nba-alert-service/internal/session"
	"nba-alert-service/internal/subscribers"
	"nba-alert-service/internal/timeutil"
	"nba-alert-service/internal/transport"
	"nba-alert-service/internal/transport/emailoctopus"
	"nba-alert-service/internal/validate"
)

// app wires the pipeline from configuration. Construction never fails;
// missing upstreams surface as run-time session outcomes.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	recorder *metrics.Recorder

	provider  providers.EventProvider
	rawClient providers.EventProvider
	clubStore *club.Store
	source    recipients.Source
	notifier  transport.Notifier
}

func newApp(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *app {
	a := &app{
		cfg:       cfg,
		logger:    logger,
		recorder:  recorder,
		clubStore: club.NewStore(cfg.Storage.ClubPath),
	}

	a.rawClient = buildRawProvider(cfg)
	a.provider = providers.NewRetryingProvider(
		providers.NewRateLimitedProvider(a.rawClient, cfg.ESPN.CallInterval, logger),
		logger, recorder, cfg.ESPN.RetryAttempts, cfg.ESPN.RetryBackoff)

	if cfg.EmailOctopus.Configured() {
		octopus := emailoctopus.NewClient(emailoctopus.Config{
			BaseURL:   cfg.EmailOctopus.BaseURL,
			APIKey:    cfg.EmailOctopus.APIKey,
			ListID:    cfg.EmailOctopus.ListID,
			FromName:  cfg.EmailOctopus.FromName,
			FromEmail: cfg.EmailOctopus.FromEmail,
		})
		a.source = octopus
		a.notifier = octopus
	} else {
		logging.Warn(logger, "emailoctopus not configured, using local roster and console delivery")
		a.source = subscribers.NewStore(cfg.Storage.SubscribersPath)
		a.notifier = &consoleNotifier{logger: logger}
	}

	return a
}

func buildRawProvider(cfg config.Config) providers.EventProvider {
	switch cfg.Provider {
	case "espn":
		return espn.NewClient(espn.Config{BaseURL: cfg.ESPN.BaseURL})
	default:
		return fixture.New()
	}
}

// scan updates the season club file with newly completed games.
func (a *app) scan(ctx context.Context, full bool) error {
	doc, err := a.clubStore.Load()
	if err != nil {
		return err
	}
	if full {
		doc = nil
	}

	nowET := time.Now().In(timeutil.Eastern())
	start := a.clubStore.ScanStart(doc)
	end := timeutil.FormatDate(nowET)

	logging.Info(a.logger, "scanning for 50-point performances",
		"start_date", start, "end_date", end, logging.FieldProvider, a.cfg.Provider)

	evs, err := a.provider.FetchEvents(ctx, start, end)
	if err != nil {
		return fmt.Errorf("scan events: %w", err)
	}

	games := 0
	if counter, ok := a.rawClient.(interface{ GamesScanned() int }); ok {
		games = counter.GamesScanned()
	}

	// Record yesterday as the checked-through mark so games finishing later
	// today are rescanned tomorrow; the dedupe makes the overlap harmless.
	checkedThrough := timeutil.FormatDate(nowET.AddDate(0, 0, -1))
	next := a.clubStore.Update(doc, evs, games, checkedThrough)
	if err := a.clubStore.Save(next); err != nil {
		return err
	}

	logging.Info(a.logger, "club file updated",
		"season", next.Season,
		logging.FieldCount, len(next.Scorers),
		"new_events", len(evs))
	return nil
}

// dispatch runs one alert session over the club file's scorers.
func (a *app) dispatch(ctx context.Context) error {
	ldg, err := ledger.Load(a.cfg.Storage.LedgerPath)
	if err != nil {
		// Fail closed: a corrupt ledger must never be treated as empty.
		return err
	}

	doc, err := a.clubStore.Load()
	if err != nil {
		return err
	}
	driver := dispatch.NewDriver(a.notifier, a.logger, a.recorder, dispatch.Config{
		MaxAttempts:    a.cfg.Alerts.MaxAttempts,
		InitialBackoff: a.cfg.Alerts.InitialBackoff,
	})
	sess := session.New(validate.New(), ldg, a.source, driver, render.Message, a.logger, a.recorder, session.Config{
		SuccessThreshold:    a.cfg.Alerts.SuccessThreshold,
		FreshnessWindowDays: a.cfg.Alerts.FreshnessWindowDays,
		PacingPerSecond:     a.cfg.Alerts.PacingPerSecond,
	})

	res := sess.Run(ctx, clubScorers(doc))
	if res.Err != nil {
		return res.Err
	}
	if !res.Success() {
		return fmt.Errorf("session %s: %s", res.State, res.Reason)
	}
	return nil
}

// runOnce is one full watch cycle: scan, then dispatch.
func (a *app) runOnce(ctx context.Context) error {
	if err := a.scan(ctx, false); err != nil {
		return err
	}
	return a.dispatch(ctx)
}

func clubScorers(doc *club.Document) []events.ScoringEvent {
	if doc == nil {
		return nil
	}
	return doc.Scorers
}

func scanCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Update the season club file with new 50-point performances",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(cfg, logger, metrics.NewRecorder()).scan(cmd.Context(), full)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Rescan the whole season instead of resuming incrementally")
	return cmd
}

func dispatchCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Run one alert session over the club file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(cfg, logger, metrics.NewRecorder()).dispatch(cmd.Context())
		},
	}
}

func runCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan then dispatch once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return newApp(cfg, logger, metrics.NewRecorder()).runOnce(cmd.Context())
		},
	}
}
