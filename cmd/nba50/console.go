package main

import (
	"context"
	"log/slog"

	"nba-alert-service/internal/logging"
	"nba-alert-service/internal/recipients"
	"nba-alert-service/internal/transport"
)

// consoleNotifier logs deliveries instead of sending them. It stands in for
// the hosted transport on local runs so the full pipeline stays exercisable.
type consoleNotifier struct {
	logger *slog.Logger
}

func (n *consoleNotifier) Name() string { return "console" }

func (n *consoleNotifier) Send(ctx context.Context, rcpt recipients.Recipient, msg transport.Message) error {
	_ = ctx
	logging.Info(n.logger, "console delivery",
		logging.FieldTransport, n.Name(),
		logging.FieldRecipient, rcpt.Email,
		logging.FieldAlertKey, msg.Key,
		"subject", msg.Subject)
	return nil
}
