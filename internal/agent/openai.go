package agent

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/teemow/voicecal/internal/errs"
	"github.com/teemow/voicecal/internal/instrumentation"
	"github.com/teemow/voicecal/internal/tools"
)

var errNoChoices = errors.New("chat completion returned no choices")

// OpenAIModel drives OpenAI chat completions with the tool registry
// advertised on every request.
type OpenAIModel struct {
	client  openai.Client
	name    string
	tools   []openai.ChatCompletionToolParam
	metrics *instrumentation.Metrics
}

// OpenAIOption configures an OpenAIModel.
type OpenAIOption func(*OpenAIModel)

// WithMetrics attaches a metrics recorder for model request metrics.
func WithMetrics(m *instrumentation.Metrics) OpenAIOption {
	return func(o *OpenAIModel) {
		o.metrics = m
	}
}

// NewOpenAIModel creates a chat model backed by the OpenAI API. The tool
// definitions are converted once at construction time.
func NewOpenAIModel(apiKey, name string, defs []tools.Definition, opts ...OpenAIOption) *OpenAIModel {
	m := &OpenAIModel{
		client: openai.NewClient(openaiopt.WithAPIKey(apiKey)),
		name:   name,
		tools:  convertTools(defs),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name returns the configured model name.
func (m *OpenAIModel) Name() string {
	return m.name
}

// Chat sends the transcript to the model and returns its next turn.
// Transport and API failures are wrapped as provider errors.
func (m *OpenAIModel) Chat(ctx context.Context, messages []Message) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.name),
		Messages: convertMessages(messages),
	}
	if len(m.tools) > 0 {
		params.Tools = m.tools
	}

	start := time.Now()
	completion, err := m.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		m.metrics.RecordModelRequest(ctx, m.name, instrumentation.StatusError, duration)
		return nil, errs.WrapProvider("openai", "chat_completion", err)
	}
	if len(completion.Choices) == 0 {
		m.metrics.RecordModelRequest(ctx, m.name, instrumentation.StatusError, duration)
		return nil, errs.WrapProvider("openai", "chat_completion", errNoChoices)
	}
	m.metrics.RecordModelRequest(ctx, m.name, instrumentation.StatusSuccess, duration)

	choice := completion.Choices[0].Message
	resp := &Response{Content: choice.Content}
	for _, tc := range choice.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return resp, nil
}

// convertMessages converts transcript messages to OpenAI's union format.
func convertMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		case RoleAssistant:
			assistant := &openai.ChatCompletionAssistantMessageParam{
				ToolCalls: convertToolCalls(msg.ToolCalls),
			}
			if msg.Content != "" {
				assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(msg.Content),
				}
			}
			result[i] = openai.ChatCompletionMessageParamUnion{OfAssistant: assistant}
		case RoleTool:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfTool: &openai.ChatCompletionToolMessageParam{
					Content: openai.ChatCompletionToolMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
					ToolCallID: msg.ToolCallID,
				},
			}
		default:
			result[i] = openai.ChatCompletionMessageParamUnion{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(msg.Content),
					},
				},
			}
		}
	}
	return result
}

// convertToolCalls converts assistant tool calls back to OpenAI's format
// so the transcript round-trips through subsequent requests.
func convertToolCalls(toolCalls []ToolCall) []openai.ChatCompletionMessageToolCallParam {
	var result []openai.ChatCompletionMessageToolCallParam
	for _, tc := range toolCalls {
		result = append(result, openai.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Name,
				Arguments: tc.Arguments,
			},
		})
	}
	return result
}

// convertTools converts registry definitions to OpenAI function tools.
func convertTools(defs []tools.Definition) []openai.ChatCompletionToolParam {
	var result []openai.ChatCompletionToolParam
	for _, def := range defs {
		result = append(result, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  shared.FunctionParameters(def.Parameters),
			},
		})
	}
	return result
}
