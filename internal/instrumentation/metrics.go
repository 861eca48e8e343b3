package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrTool      = "tool"
	attrStatus    = "status"
	attrModel     = "model"
	attrOperation = "operation"
)

// Status values recorded on metrics.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics provides methods for recording observability metrics. The zero
// value is a no-op recorder.
type Metrics struct {
	// Tool dispatch metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	// Model call metrics
	modelRequestsTotal   metric.Int64Counter
	modelRequestDuration metric.Float64Histogram

	// Speech boundary metrics
	voiceOperationsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"agent_tool_invocations_total",
		metric.WithDescription("Total number of tool invocations dispatched by the agent"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"agent_tool_duration_seconds",
		metric.WithDescription("Tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_tool_duration_seconds histogram: %w", err)
	}

	m.modelRequestsTotal, err = meter.Int64Counter(
		"agent_model_requests_total",
		metric.WithDescription("Total number of language model requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_model_requests_total counter: %w", err)
	}

	m.modelRequestDuration, err = meter.Float64Histogram(
		"agent_model_request_duration_seconds",
		metric.WithDescription("Language model request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create agent_model_request_duration_seconds histogram: %w", err)
	}

	m.voiceOperationsTotal, err = meter.Int64Counter(
		"voice_operations_total",
		metric.WithDescription("Total number of speech transcription and synthesis operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create voice_operations_total counter: %w", err)
	}

	return m, nil
}

// RecordToolInvocation records a tool dispatch with its outcome and duration.
func (m *Metrics) RecordToolInvocation(ctx context.Context, tool, status string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrStatus, status),
	)
	m.toolInvocationsTotal.Add(ctx, 1, attrs)
	m.toolDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordModelRequest records a language model request with its outcome and
// duration.
func (m *Metrics) RecordModelRequest(ctx context.Context, model, status string, duration time.Duration) {
	if m == nil || m.modelRequestsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrModel, model),
		attribute.String(attrStatus, status),
	)
	m.modelRequestsTotal.Add(ctx, 1, attrs)
	m.modelRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordVoiceOperation records a transcription or synthesis operation.
func (m *Metrics) RecordVoiceOperation(ctx context.Context, operation, status string) {
	if m == nil || m.voiceOperationsTotal == nil {
		return
	}

	m.voiceOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	))
}
