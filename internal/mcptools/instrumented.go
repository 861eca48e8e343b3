package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/voicecal/internal/instrumentation"
	"github.com/teemow/voicecal/internal/server"
)

type toolHandler func(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error)

// instrumentedHandler wraps a tool handler with metrics and audit logging.
func instrumentedHandler(
	toolName string,
	operation string,
	sc *server.ServerContext,
	handler toolHandler,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return handler(ctx, request, sc)
		}

		invocation := instrumentation.NewToolInvocation(toolName).
			WithOperation(operation).
			WithSpanContext(ctx)

		result, err := handler(ctx, request, sc)

		if err != nil || (result != nil && result.IsError) {
			if err != nil {
				invocation.CompleteWithError(err)
			} else {
				invocation.Complete(false, nil)
			}
		} else {
			invocation.CompleteSuccess()
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, invocation.Status(), invocation.Duration)
		}
		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
