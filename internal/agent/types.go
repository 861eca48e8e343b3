package agent

import "context"

// Message roles in the conversation transcript.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry in the conversation transcript. Tool messages carry
// the ToolCallID of the call they answer; assistant messages may carry the
// tool calls the model emitted.
type Message struct {
	Role       string
	Content    string
	ToolCalls  []ToolCall
	ToolCallID string
}

// ToolCall is a single tool invocation requested by the model. Arguments
// is the raw JSON object emitted by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Response is a single model turn: either a final text answer or a set of
// tool calls to execute (or both).
type Response struct {
	Content   string
	ToolCalls []ToolCall
}

// Model is the chat-completion surface the agent loop drives. Tools are
// advertised on every request; the model decides per turn whether to
// answer or call tools.
type Model interface {
	Chat(ctx context.Context, messages []Message) (*Response, error)
	Name() string
}
