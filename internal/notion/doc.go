// Package notion contains the Notion page model, the payload builders that
// turn tool arguments into "create page" requests, and a small REST client
// for the Notion pages API.
//
// # Payload construction
//
// A Schema names the database properties a request writes to. The builders
// are pure functions of their arguments:
//
//	schema := notion.DefaultSchema()
//	req := schema.BuildCalendarPageRequest(dbID, "Team Sync", "2024-03-15", "Room 4\nBring laptop")
//
// Each line of a description becomes one paragraph block. An empty
// description produces no "children" key at all.
//
// # Client
//
// Client.CreatePage sends exactly one POST /pages request. It performs no
// retries and no rate-limit handling; API failures are returned as *APIError.
package notion
