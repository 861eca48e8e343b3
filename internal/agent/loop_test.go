package agent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/voicecal/internal/calendar"
	"github.com/teemow/voicecal/internal/errs"
	"github.com/teemow/voicecal/internal/tools"
)

// scriptedModel replays a fixed sequence of responses and records the
// transcript it was handed on each call.
type scriptedModel struct {
	responses []*Response
	err       error
	calls     [][]Message
}

func (m *scriptedModel) Chat(_ context.Context, messages []Message) (*Response, error) {
	snapshot := make([]Message, len(messages))
	copy(snapshot, messages)
	m.calls = append(m.calls, snapshot)

	if m.err != nil {
		return nil, m.err
	}
	if len(m.calls) > len(m.responses) {
		return &Response{Content: "out of script"}, nil
	}
	return m.responses[len(m.calls)-1], nil
}

func (m *scriptedModel) Name() string { return "test-model" }

type recordingService struct {
	created []calendar.CreateEventInput
	deleted []string
}

func (s *recordingService) CreateEvent(_ context.Context, in calendar.CreateEventInput) (*calendar.CreatedEvent, error) {
	s.created = append(s.created, in)
	return &calendar.CreatedEvent{ID: "ev1", Title: in.Title}, nil
}

func (s *recordingService) ListEvents(context.Context, string, int) ([]calendar.EventSummary, error) {
	return nil, nil
}

func (s *recordingService) DeleteEvent(_ context.Context, eventID string) error {
	s.deleted = append(s.deleted, eventID)
	return nil
}

func (s *recordingService) DeleteEventByTitle(context.Context, string, string, int) (*calendar.DeleteResult, error) {
	return &calendar.DeleteResult{Success: true, Message: "deleted"}, nil
}

func (s *recordingService) UpdateEvent(_ context.Context, in calendar.UpdateEventInput) (*calendar.UpdatedEvent, error) {
	return &calendar.UpdatedEvent{ID: in.EventID}, nil
}

func newTestLoop(t *testing.T, model Model, opts ...LoopOption) (*Loop, *recordingService) {
	t.Helper()

	svc := &recordingService{}
	registry := tools.NewRegistry()
	require.NoError(t, tools.RegisterCalendarTools(registry, svc))

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	fixed := time.Date(2024, 6, 10, 9, 30, 0, 0, loc)
	opts = append([]LoopOption{WithClock(func() time.Time { return fixed })}, opts...)
	return NewLoop(model, registry, loc, opts...), svc
}

func TestSystemPromptEmbedsCurrentDate(t *testing.T) {
	model := &scriptedModel{responses: []*Response{{Content: "Hi!"}}}
	loop, _ := newTestLoop(t, model)

	_, err := loop.Run(context.Background(), "hello")
	require.NoError(t, err)

	require.NotEmpty(t, model.calls)
	system := model.calls[0][0]
	assert.Equal(t, RoleSystem, system.Role)
	assert.Contains(t, system.Content, "Monday, June 10, 2024 at 09:30")
	assert.Contains(t, system.Content, "America/New_York")
	assert.Contains(t, system.Content, "YYYY-MM-DD")
}

func TestRunSingleToolCallThenAnswer(t *testing.T) {
	args := `{"title":"Lunch with Sarah","date":"2024-06-11","time":"12:00"}`
	model := &scriptedModel{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: tools.ToolCreateEvent, Arguments: args}}},
		{Content: "Booked lunch with Sarah tomorrow at noon."},
	}}
	loop, svc := newTestLoop(t, model)

	answer, err := loop.Run(context.Background(), "Schedule lunch with Sarah tomorrow at noon")
	require.NoError(t, err)
	assert.Equal(t, "Booked lunch with Sarah tomorrow at noon.", answer)

	require.Len(t, svc.created, 1)
	assert.Equal(t, "Lunch with Sarah", svc.created[0].Title)
	assert.Equal(t, "2024-06-11", svc.created[0].Date)
	assert.Equal(t, "12:00", svc.created[0].Time)

	// Second model call must see the assistant tool call and its result.
	require.Len(t, model.calls, 2)
	transcript := model.calls[1]
	last := transcript[len(transcript)-1]
	assert.Equal(t, RoleTool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Contains(t, last.Content, "ev1")
}

func TestRunMultipleToolCallsInOrder(t *testing.T) {
	model := &scriptedModel{responses: []*Response{
		{ToolCalls: []ToolCall{
			{ID: "call_1", Name: tools.ToolDeleteEvent, Arguments: `{"event_id":"a"}`},
			{ID: "call_2", Name: tools.ToolDeleteEvent, Arguments: `{"event_id":"b"}`},
		}},
		{Content: "Both gone."},
	}}
	loop, svc := newTestLoop(t, model)

	answer, err := loop.Run(context.Background(), "Delete both meetings")
	require.NoError(t, err)
	assert.Equal(t, "Both gone.", answer)
	assert.Equal(t, []string{"a", "b"}, svc.deleted)

	transcript := model.calls[1]
	require.GreaterOrEqual(t, len(transcript), 2)
	assert.Equal(t, "call_1", transcript[len(transcript)-2].ToolCallID)
	assert.Equal(t, "call_2", transcript[len(transcript)-1].ToolCallID)
}

func TestRunUnknownToolFoldedBack(t *testing.T) {
	model := &scriptedModel{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: "frobnicate", Arguments: `{}`}}},
		{Content: "Sorry, I can't do that."},
	}}
	loop, _ := newTestLoop(t, model)

	answer, err := loop.Run(context.Background(), "frobnicate my calendar")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I can't do that.", answer)

	transcript := model.calls[1]
	last := transcript[len(transcript)-1]
	var payload tools.ErrorPayload
	require.NoError(t, json.Unmarshal([]byte(last.Content), &payload))
	assert.Equal(t, "Unknown tool: frobnicate", payload.Error)
}

func TestRunToolValidationErrorDoesNotAbort(t *testing.T) {
	model := &scriptedModel{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "call_1", Name: tools.ToolCreateEvent, Arguments: `{"title":"Lunch"}`}}},
		{Content: "I need a date and time for that."},
	}}
	loop, svc := newTestLoop(t, model)

	answer, err := loop.Run(context.Background(), "Schedule lunch")
	require.NoError(t, err)
	assert.Equal(t, "I need a date and time for that.", answer)
	assert.Empty(t, svc.created)

	last := model.calls[1][len(model.calls[1])-1]
	assert.Contains(t, last.Content, "date and time")
}

func TestRunEmptyAnswerFallsBack(t *testing.T) {
	model := &scriptedModel{responses: []*Response{{Content: ""}}}
	loop, _ := newTestLoop(t, model)

	answer, err := loop.Run(context.Background(), "thanks")
	require.NoError(t, err)
	assert.Equal(t, "Done!", answer)
}

func TestRunExceedsRoundBound(t *testing.T) {
	// Eleven scripted tool-call turns; the loop must stop after ten.
	var responses []*Response
	for i := 0; i < 11; i++ {
		responses = append(responses, &Response{
			ToolCalls: []ToolCall{{ID: "call", Name: tools.ToolListEvents, Arguments: `{}`}},
		})
	}
	model := &scriptedModel{responses: responses}
	loop, _ := newTestLoop(t, model)

	_, err := loop.Run(context.Background(), "keep checking")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrToolLoopExceeded)
	assert.Len(t, model.calls, DefaultMaxRounds)
}

func TestRunCustomRoundBound(t *testing.T) {
	model := &scriptedModel{responses: []*Response{
		{ToolCalls: []ToolCall{{ID: "c1", Name: tools.ToolListEvents, Arguments: `{}`}}},
		{ToolCalls: []ToolCall{{ID: "c2", Name: tools.ToolListEvents, Arguments: `{}`}}},
	}}
	loop, _ := newTestLoop(t, model, WithMaxRounds(2))

	_, err := loop.Run(context.Background(), "hi")
	assert.ErrorIs(t, err, errs.ErrToolLoopExceeded)
	assert.Len(t, model.calls, 2)
}

func TestRunModelErrorPropagates(t *testing.T) {
	model := &scriptedModel{err: errs.WrapProvider("openai", "chat_completion", errors.New("boom"))}
	loop, _ := newTestLoop(t, model)

	_, err := loop.Run(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, errs.IsProvider(err))
}

func TestTranscriptPersistsAcrossTurns(t *testing.T) {
	model := &scriptedModel{responses: []*Response{
		{Content: "Hello!"},
		{Content: "Still here."},
	}}
	loop, _ := newTestLoop(t, model)

	_, err := loop.Run(context.Background(), "hi")
	require.NoError(t, err)
	_, err = loop.Run(context.Background(), "are you there?")
	require.NoError(t, err)

	// Second call sees system + user + assistant + user.
	require.Len(t, model.calls, 2)
	assert.Len(t, model.calls[1], 4)
}

func TestResetKeepsSystemPrompt(t *testing.T) {
	model := &scriptedModel{responses: []*Response{{Content: "Hello!"}, {Content: "Fresh start."}}}
	loop, _ := newTestLoop(t, model)

	_, err := loop.Run(context.Background(), "hi")
	require.NoError(t, err)

	loop.Reset()

	_, err = loop.Run(context.Background(), "hello again")
	require.NoError(t, err)

	transcript := model.calls[1]
	require.Len(t, transcript, 2)
	assert.Equal(t, RoleSystem, transcript[0].Role)
	assert.Equal(t, "hello again", transcript[1].Content)
}
