// Package logging provides structured logging helpers built on log/slog.
//
// All logs go to stderr. When the server runs over the stdio transport,
// stdout carries the MCP message stream and must stay clean.
//
// Usage:
//
//	logger := logging.WithTool(slog.Default(), "add_calendar_event")
//	logger.Info("page created", logging.Database(dbID), logging.Status(logging.StatusSuccess))
//
// Tokens are never logged directly; use SanitizeToken. Database ids are
// shortened with MaskID.
package logging
