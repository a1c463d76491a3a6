// Package server holds the runtime state shared by MCP tool handlers and the
// HTTP surfaces around the MCP server.
//
// ServerContext carries the loaded configuration, the Notion client, the
// logger and the metrics and audit recorders. It is created once at startup
// and passed to every tool registration.
//
// For the streamable-http transport, HTTPServer mounts the MCP endpoint at
// /mcp next to the /healthz, /readyz and /healthz/detailed probes, and
// records request metrics. MetricsServer exposes Prometheus metrics on a
// separate port.
package server
