package config

import "time"

const (
	envProvider      = "PROVIDER"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"
	envWatchInterval = "WATCH_INTERVAL"
	envOpsPort       = "OPS_PORT"

	envMetricsOn    = "METRICS_ENABLED"
	envMetricsPort  = "METRICS_PORT"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultProvider  = "fixture"
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultOpsPort   = "4000"
	// Box scores land well after the final buzzer; hourly checks are plenty.
	defaultWatchInterval = Duration(time.Hour)
	defaultMetricsPort   = "9090"
)
