package render

import (
	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/transport"
)

// Message assembles the full outbound message for a batch of events. The
// leading event's alert key becomes the dedupe tag. Template execution cannot
// fail for these value-only views, so render errors degrade to empty bodies
// rather than aborting a dispatch.
func Message(batch []events.ScoringEvent) transport.Message {
	msg := transport.Message{Subject: Subject(batch)}
	if len(batch) > 0 {
		msg.Key = batch[0].AlertKey()
	}
	if text, err := Text(batch); err == nil {
		msg.TextBody = text
	}
	if html, err := HTML(batch); err == nil {
		msg.HTMLBody = html
	}
	return msg
}
