package notion_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/notion-mcp/internal/logging"
	"github.com/teemow/notion-mcp/internal/notion"
	"github.com/teemow/notion-mcp/internal/server"
	"github.com/teemow/notion-mcp/internal/tools/common"
)

// urlPlaceholder stands in for the page URL when Notion does not return one.
const urlPlaceholder = "N/A"

// RegisterNotionTools registers all Notion tools with the MCP server
func RegisterNotionTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if s == nil || sc == nil {
		return errors.New("MCP server and server context are required")
	}

	if err := RegisterCalendarTools(s, sc); err != nil {
		return fmt.Errorf("failed to register calendar tools: %w", err)
	}

	if err := RegisterListTools(s, sc); err != nil {
		return fmt.Errorf("failed to register list tools: %w", err)
	}

	return nil
}

// createPage sends req and wraps any failure as an external ToolError.
func createPage(ctx context.Context, sc *server.ServerContext, subject string, req *notion.PageRequest) (*notion.Page, error) {
	common.RecordDatabase(ctx, req.Parent.DatabaseID)

	page, err := common.CreatePage(ctx, sc, req)
	if err != nil {
		return nil, externalError(subject, err)
	}

	common.RecordPage(ctx, page.ID)
	return page, nil
}

// pageURL returns the page URL or the placeholder.
func pageURL(page *notion.Page) string {
	if page == nil || page.URL == "" {
		return urlPlaceholder
	}
	return page.URL
}

// toolResult renders the outcome of a tool call. A non-nil err always
// becomes an error result; the Go error returned to mcp-go stays nil.
func toolResult(ctx context.Context, sc *server.ServerContext, tool, success string, err error) (*mcp.CallToolResult, error) {
	if err == nil {
		return mcp.NewToolResultText(success), nil
	}

	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		toolErr = externalError("page", err)
	}
	common.RecordErrorKind(ctx, string(toolErr.Kind))

	sc.Logger().Warn("tool call failed",
		logging.KeyTool, tool,
		"kind", string(toolErr.Kind),
		logging.KeyError, toolErr.Error(),
	)

	return mcp.NewToolResultError(toolErr.Message()), nil
}
