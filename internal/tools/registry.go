package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/teemow/voicecal/internal/instrumentation"
	"github.com/teemow/voicecal/internal/logging"
)

// Definition describes a tool as advertised to the language model. The
// Parameters field holds a JSON Schema object for the tool's arguments.
type Definition struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// Handler executes a tool against its raw JSON arguments. A handler error
// is recoverable: Dispatch folds it into an ErrorPayload for the model
// instead of propagating it.
type Handler func(ctx context.Context, args json.RawMessage) (interface{}, error)

// ErrorPayload is the structured result returned to the model when a tool
// fails or is unknown. The model is expected to narrate it to the user.
type ErrorPayload struct {
	Error string `json:"error"`
}

// Registry holds the fixed set of tools the agent may call. Definitions
// are returned in registration order so the model always sees a stable
// tool list.
type Registry struct {
	defs     []Definition
	handlers map[string]Handler
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger
	logger   *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics attaches a metrics recorder to the registry.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithAuditLogger attaches an audit logger to the registry.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(r *Registry) {
		r.audit = al
	}
}

// WithLogger sets the structured logger used for dispatch logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty tool registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		handlers: make(map[string]Handler),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool to the registry. Registering a duplicate name is a
// programming error and returns one.
func (r *Registry) Register(def Definition, handler Handler) error {
	if def.Name == "" {
		return fmt.Errorf("tool definition has no name")
	}
	if handler == nil {
		return fmt.Errorf("tool %s has no handler", def.Name)
	}
	if _, exists := r.handlers[def.Name]; exists {
		return fmt.Errorf("tool %s already registered", def.Name)
	}
	r.defs = append(r.defs, def)
	r.handlers[def.Name] = handler
	return nil
}

// Definitions returns the registered tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, len(r.defs))
	copy(defs, r.defs)
	return defs
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch executes the named tool. It never returns an error: an unknown
// tool name or a failing handler produces an ErrorPayload so the agent
// loop can hand the outcome back to the model and keep the conversation
// going. Every dispatch is traced, measured and audit-logged.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) interface{} {
	handler, ok := r.handlers[name]
	if !ok {
		r.logger.WarnContext(ctx, "unknown tool requested", logging.Tool(name))
		if r.metrics != nil {
			r.metrics.RecordToolInvocation(ctx, name, instrumentation.StatusError, 0)
		}
		return ErrorPayload{Error: fmt.Sprintf("Unknown tool: %s", name)}
	}

	ctx, span := instrumentation.StartToolSpan(ctx, name)
	defer span.End()

	invocation := instrumentation.NewToolInvocation(name).WithSpanContext(ctx)

	result, err := handler(ctx, args)

	if err != nil {
		invocation.CompleteWithError(err)
		instrumentation.SetSpanError(span, err)
		r.logger.WarnContext(ctx, "tool failed",
			logging.Tool(name),
			logging.Err(err),
			logging.Duration(invocation.Duration),
		)
	} else {
		invocation.CompleteSuccess()
		instrumentation.SetSpanSuccess(span)
		r.logger.DebugContext(ctx, "tool executed",
			logging.Tool(name),
			logging.Duration(invocation.Duration),
		)
	}

	if r.metrics != nil {
		r.metrics.RecordToolInvocation(ctx, name, invocation.Status(), invocation.Duration)
	}
	if r.audit != nil {
		r.audit.LogToolInvocation(invocation)
	}

	if err != nil {
		return ErrorPayload{Error: err.Error()}
	}
	return result
}
