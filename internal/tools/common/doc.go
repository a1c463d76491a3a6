// Package common provides shared utilities for MCP tool implementations:
// argument helpers, instrumented handler wrapping and the instrumented
// Notion page creation used by every tool.
package common
