package logging

// Common structured log field keys to keep logs searchable/consistent.
const (
	FieldService    = "service"
	FieldVersion    = "version"
	FieldProvider   = "provider"
	FieldTransport  = "transport"
	FieldDate       = "date"
	FieldAlertKey   = "alert_key"
	FieldPlayer     = "player"
	FieldPoints     = "points"
	FieldRecipient  = "recipient_id"
	FieldCount      = "count"
	FieldState      = "state"
	FieldOutcome    = "outcome"
	FieldAttempt    = "attempt"
	FieldDurationMS = "duration_ms"
)
