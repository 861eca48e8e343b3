package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/teemow/voicecal/internal/errs"
	"github.com/teemow/voicecal/internal/instrumentation"
	"github.com/teemow/voicecal/internal/logging"
	"github.com/teemow/voicecal/internal/tools"
)

// DefaultMaxRounds bounds how many model turns a single user request may
// consume before the loop gives up.
const DefaultMaxRounds = 10

// fallbackReply is returned when the model ends a turn without any text.
const fallbackReply = "Done!"

const systemPromptFormat = `You are a helpful personal calendar assistant. You manage the user's calendar through the available tools.

Current date and time: %s (%s).

When the user gives a relative date like "tomorrow", "next Monday" or "in two days", resolve it to an absolute date using the current date before calling a tool. Always pass dates in YYYY-MM-DD format and times in 24-hour HH:MM format. When the user does not give a duration, omit it so the default applies.

Keep your answers short and conversational; they may be read aloud.`

// Loop runs the bounded tool-calling conversation between the user, the
// model and the tool registry. The transcript persists across turns, so a
// session keeps its context.
type Loop struct {
	model     Model
	registry  *tools.Registry
	loc       *time.Location
	now       func() time.Time
	maxRounds int
	logger    *slog.Logger

	messages []Message
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithMaxRounds overrides the round bound.
func WithMaxRounds(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.maxRounds = n
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) LoopOption {
	return func(l *Loop) {
		l.now = now
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// NewLoop creates a conversation loop. The system prompt embeds the
// current date and time in loc so the model can resolve relative dates.
func NewLoop(model Model, registry *tools.Registry, loc *time.Location, opts ...LoopOption) *Loop {
	l := &Loop{
		model:     model,
		registry:  registry,
		loc:       loc,
		now:       time.Now,
		maxRounds: DefaultMaxRounds,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.loc == nil {
		l.loc = time.UTC
	}

	now := l.now().In(l.loc)
	l.messages = []Message{{
		Role:    RoleSystem,
		Content: fmt.Sprintf(systemPromptFormat, now.Format("Monday, January 2, 2006 at 15:04"), l.loc.String()),
	}}
	return l
}

// Run processes one user request. It appends the request to the
// transcript, then alternates model turns and tool dispatches until the
// model answers with text or the round bound is hit. Tool failures are
// folded back into the transcript as structured payloads; only model
// failures and the exhausted bound surface as errors.
func (l *Loop) Run(ctx context.Context, userText string) (string, error) {
	ctx, span := instrumentation.StartSpan(ctx, "agent.run")
	defer span.End()

	l.messages = append(l.messages, Message{Role: RoleUser, Content: userText})

	for round := 1; round <= l.maxRounds; round++ {
		l.logger.DebugContext(ctx, "model turn",
			logging.Model(l.model.Name()),
			logging.Round(round),
		)

		resp, err := l.chatOnce(ctx, round)
		if err != nil {
			instrumentation.SetSpanError(span, err)
			return "", err
		}

		l.messages = append(l.messages, Message{
			Role:      RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		if len(resp.ToolCalls) == 0 {
			instrumentation.SetSpanSuccess(span)
			if resp.Content == "" {
				return fallbackReply, nil
			}
			return resp.Content, nil
		}

		// Execute every requested call in the order the model emitted
		// them, then hand all results back before the next turn.
		for _, call := range resp.ToolCalls {
			l.messages = append(l.messages, Message{
				Role:       RoleTool,
				Content:    l.executeTool(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}

	instrumentation.SetSpanError(span, errs.ErrToolLoopExceeded)
	l.logger.WarnContext(ctx, "tool loop exhausted",
		logging.Model(l.model.Name()),
		logging.Round(l.maxRounds),
	)
	return "", errs.ErrToolLoopExceeded
}

func (l *Loop) chatOnce(ctx context.Context, round int) (*Response, error) {
	ctx, span := instrumentation.StartModelSpan(ctx, l.model.Name(), round)
	defer span.End()

	resp, err := l.model.Chat(ctx, l.messages)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		return nil, err
	}
	instrumentation.SetSpanSuccess(span)
	return resp, nil
}

// executeTool dispatches one tool call and serializes the result for the
// transcript. Dispatch never fails, but serialization might for exotic
// payloads; that too becomes an error payload rather than a loop failure.
func (l *Loop) executeTool(ctx context.Context, call ToolCall) string {
	result := l.registry.Dispatch(ctx, call.Name, json.RawMessage(call.Arguments))

	data, err := json.Marshal(result)
	if err != nil {
		l.logger.ErrorContext(ctx, "tool result not serializable",
			logging.Tool(call.Name),
			logging.Err(err),
		)
		data, _ = json.Marshal(tools.ErrorPayload{
			Error: fmt.Sprintf("tool result not serializable: %v", err),
		})
	}
	return string(data)
}

// Reset clears the conversation history, keeping the system prompt.
func (l *Loop) Reset() {
	if len(l.messages) > 0 {
		l.messages = l.messages[:1]
	}
}
