// Package notion_tools registers the MCP tools that add pages to Notion
// databases: add_calendar_event and add_list_item.
//
// Each tool checks that its target database is configured, builds the page
// request, creates the page and reports the result as a single string.
// Failures never surface as protocol errors; they are returned as error
// results so the caller can read them.
package notion_tools
