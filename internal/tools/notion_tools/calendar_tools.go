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
	calendarToolName = "add_calendar_event"
	calendarSubject  = "calendar event"
)

// CalendarEventArgs are the arguments of add_calendar_event.
type CalendarEventArgs struct {
	Title       string
	Date        string
	Description string
}

// RegisterCalendarTools registers the calendar tool with the MCP server
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	addEventTool := mcp.NewTool(calendarToolName,
		mcp.WithDescription("Add a new event to the Notion calendar database"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title/name"),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Event date in ISO format (YYYY-MM-DD) or ISO datetime (YYYY-MM-DDTHH:MM:SS)"),
		),
		mcp.WithString("description",
			mcp.Description("Optional event description. Each line becomes a paragraph."),
			mcp.DefaultString(""),
		),
	)

	s.AddTool(addEventTool, common.InstrumentedToolHandler(calendarToolName, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddCalendarEvent(ctx, request, sc)
		}))

	return nil
}

func handleAddCalendarEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	// configuration is checked before arguments so a missing database is
	// reported no matter what the caller sent
	if sc.Config().CalendarDBID == "" {
		return toolResult(ctx, sc, calendarToolName, "", configurationError(calendarSubject, config.EnvCalendarDBID))
	}

	args := request.GetArguments()

	title, ok := common.StringArg(args, "title")
	if !ok {
		return toolResult(ctx, sc, calendarToolName, "", invalidArgumentError(calendarSubject, "title"))
	}
	date, ok := common.StringArg(args, "date")
	if !ok {
		return toolResult(ctx, sc, calendarToolName, "", invalidArgumentError(calendarSubject, "date"))
	}

	page, err := addCalendarEvent(ctx, sc, CalendarEventArgs{
		Title:       title,
		Date:        date,
		Description: common.OptionalStringArg(args, "description", ""),
	})
	if err != nil {
		return toolResult(ctx, sc, calendarToolName, "", err)
	}

	return toolResult(ctx, sc, calendarToolName, calendarEventCreatedMessage(title, page), nil)
}

// addCalendarEvent creates a page for args in the calendar database.
func addCalendarEvent(ctx context.Context, sc *server.ServerContext, args CalendarEventArgs) (*notion.Page, error) {
	databaseID := sc.Config().CalendarDBID
	if databaseID == "" {
		return nil, configurationError(calendarSubject, config.EnvCalendarDBID)
	}

	req := sc.Schema().BuildCalendarPageRequest(databaseID, args.Title, args.Date, args.Description)
	return createPage(ctx, sc, calendarSubject, req)
}

func calendarEventCreatedMessage(title string, page *notion.Page) string {
	return fmt.Sprintf("✅ Calendar event '%s' created successfully!\nURL: %s", title, pageURL(page))
}
