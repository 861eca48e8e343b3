package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for the voicecal package.
const TracerName = "github.com/teemow/voicecal"

// Span attribute keys for operations.
const (
	// SpanAttrTool is the agent tool name attribute.
	SpanAttrTool = "agent.tool"

	// SpanAttrRound is the agent loop round attribute.
	SpanAttrRound = "agent.round"

	// SpanAttrModel is the language model name attribute.
	SpanAttrModel = "agent.model"

	// SpanAttrOperation is the calendar or voice operation attribute.
	SpanAttrOperation = "voicecal.operation"

	// SpanAttrStatus is the operation status attribute.
	SpanAttrStatus = "voicecal.status"

	// SpanAttrEventID is the calendar event identifier attribute.
	SpanAttrEventID = "calendar.event_id"
)

// StartSpan starts a new span with the given name and attributes.
// The caller is responsible for ending the span with defer span.End().
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// StartToolSpan starts a span for a tool dispatch. Automatically adds the
// tool name attribute and sets the span kind.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	allAttrs = append(allAttrs, attribute.String(SpanAttrTool, toolName))
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartModelSpan starts a span for a language model request.
func StartModelSpan(ctx context.Context, model string, round int) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "model.chat_completion",
		trace.WithAttributes(
			attribute.String(SpanAttrModel, model),
			attribute.Int(SpanAttrRound, round),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records an error on the span and sets the status to error.
func SetSpanError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
