// Package instrumentation provides OpenTelemetry-based observability for
// the assistant: metrics for tool dispatches, model requests and voice
// operations, optional distributed tracing, and structured audit logging
// of every tool invocation.
//
// Instrumentation is disabled by default and enabled via environment
// variables:
//
//	INSTRUMENTATION_ENABLED=true
//	METRICS_EXPORTER=prometheus|otlp|stdout
//	TRACING_EXPORTER=otlp|stdout|none
//	OTEL_EXPORTER_OTLP_ENDPOINT=collector:4318
//
// With a disabled provider all recorders are no-ops, so callers never
// need to branch on the configuration.
package instrumentation
