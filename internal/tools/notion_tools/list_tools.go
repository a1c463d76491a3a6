package notion_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/notion-mcp/internal/config"
	"github.com/teemow/notion-mcp/internal/notion"
	"github.com/teemow/notion-mcp/internal/server"
	"github.com/teemow/notion-mcp/internal/tools/common"
)

const (
	listToolName = "add_list_item"
	listSubject  = "list item"

	// DefaultStatus and DefaultPriority are applied when the caller omits them.
	DefaultStatus   = "Not Started"
	DefaultPriority = "Medium"
)

// ListItemArgs are the arguments of add_list_item. Status and Priority are
// only written when the schema names the matching properties.
type ListItemArgs struct {
	Title       string
	Status      string
	Priority    string
	Description string
}

// RegisterListTools registers the list tool with the MCP server
func RegisterListTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	addItemTool := mcp.NewTool(listToolName,
		mcp.WithDescription("Add a new item to the Notion list database"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task/item title"),
		),
		mcp.WithString("status",
			mcp.Description("Task status (e.g., \"Not Started\", \"In Progress\", \"Done\")"),
			mcp.DefaultString(DefaultStatus),
		),
		mcp.WithString("priority",
			mcp.Description("Task priority (e.g., \"High\", \"Medium\", \"Low\")"),
			mcp.DefaultString(DefaultPriority),
		),
		mcp.WithString("description",
			mcp.Description("Optional item description. Each line becomes a paragraph."),
			mcp.DefaultString(""),
		),
	)

	s.AddTool(addItemTool, common.InstrumentedToolHandler(listToolName, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddListItem(ctx, request, sc)
		}))

	return nil
}

func handleAddListItem(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if sc.Config().ListDBID == "" {
		return toolResult(ctx, sc, listToolName, "", configurationError(listSubject, config.EnvListDBID))
	}

	args := request.GetArguments()

	title, ok := common.StringArg(args, "title")
	if !ok {
		return toolResult(ctx, sc, listToolName, "", invalidArgumentError(listSubject, "title"))
	}

	page, err := addListItem(ctx, sc, ListItemArgs{
		Title:       title,
		Status:      common.OptionalStringArg(args, "status", DefaultStatus),
		Priority:    common.OptionalStringArg(args, "priority", DefaultPriority),
		Description: common.OptionalStringArg(args, "description", ""),
	})
	if err != nil {
		return toolResult(ctx, sc, listToolName, "", err)
	}

	return toolResult(ctx, sc, listToolName, listItemCreatedMessage(title, page), nil)
}

// addListItem creates a page for args in the list database.
func addListItem(ctx context.Context, sc *server.ServerContext, args ListItemArgs) (*notion.Page, error) {
	databaseID := sc.Config().ListDBID
	if databaseID == "" {
		return nil, configurationError(listSubject, config.EnvListDBID)
	}

	req := sc.Schema().BuildListPageRequest(databaseID, args.Title, args.Status, args.Priority, args.Description)
	return createPage(ctx, sc, listSubject, req)
}

func listItemCreatedMessage(title string, page *notion.Page) string {
	return fmt.Sprintf("✅ List item '%s' created successfully!\nURL: %s", title, pageURL(page))
}
