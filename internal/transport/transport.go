// Package transport defines the notification delivery contract and the closed
// set of outcome classes the dispatch driver reasons about. Adapter packages
// map wire-level error codes onto these variants so the core never matches on
// transport-specific vocabulary.
package transport

import (
	"context"
	"errors"

	"nba-alert-service/internal/recipients"
)

// Message is one logical notification. Key identifies the notification for
// the purpose of transport-side duplicate detection (a recipient/key pair is
// notified at most once by a well-behaved transport).
type Message struct {
	Key      string
	Subject  string
	TextBody string
	HTMLBody string
}

// Notifier delivers one logical notification to one recipient. A nil return
// means delivered. Errors must be classified via this package's variants.
type Notifier interface {
	Send(ctx context.Context, rcpt recipients.Recipient, msg Message) error
}

// Name is implemented by notifiers that identify themselves for logs/metrics.
type Name interface {
	Name() string
}

// ErrAlreadyDelivered signals that the recipient's transport-side history
// already includes this logical notification. It is not a failure; drivers
// short-circuit and count it as a success.
var ErrAlreadyDelivered = errors.New("recipient already received this notification")
