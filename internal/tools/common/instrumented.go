package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/notion-mcp/internal/instrumentation"
	"github.com/teemow/notion-mcp/internal/server"
)

type invocationKey struct{}

// InstrumentedToolHandler wraps a tool handler with a tool span, metrics and
// audit logging. The handler can annotate the invocation through
// RecordDatabase, RecordPage and RecordErrorKind.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).WithSpanContext(ctx)
		ctx = context.WithValue(ctx, invocationKey{}, invocation)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			resErr := resultError(result)
			invocation.Complete(false, resErr)
			instrumentation.SetSpanError(span, resErr)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if invocation.ErrorKind != "" {
			span.SetAttributes(attribute.String(instrumentation.SpanAttrErrorKind, invocation.ErrorKind))
		}

		sc.Metrics().RecordToolInvocationWithDatabase(ctx, toolName, status, invocation.DatabaseID, duration)
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, err
	}
}

// invocationFromContext returns the invocation started by
// InstrumentedToolHandler, or nil outside of one.
func invocationFromContext(ctx context.Context) *instrumentation.ToolInvocation {
	ti, _ := ctx.Value(invocationKey{}).(*instrumentation.ToolInvocation)
	return ti
}

// RecordDatabase notes the target database of the current tool invocation.
func RecordDatabase(ctx context.Context, databaseID string) {
	if ti := invocationFromContext(ctx); ti != nil {
		ti.WithDatabase(databaseID, instrumentation.OperationCreatePage)
	}
}

// RecordPage notes the page created by the current tool invocation.
func RecordPage(ctx context.Context, pageID string) {
	if ti := invocationFromContext(ctx); ti != nil {
		ti.WithPage(pageID)
	}
}

// RecordErrorKind notes the category of a failed tool invocation.
func RecordErrorKind(ctx context.Context, kind string) {
	if ti := invocationFromContext(ctx); ti != nil {
		ti.WithErrorKind(kind)
	}
}

// resultError turns the text of an error result into an error for the
// audit log and span status.
func resultError(result *mcp.CallToolResult) error {
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return errors.New(text.Text)
		}
	}
	return errors.New("tool returned an error result")
}
