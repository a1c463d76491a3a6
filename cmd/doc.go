// Package cmd implements the command-line interface for notion-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the Notion tools
//   - config: Show the effective configuration with secrets masked
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
