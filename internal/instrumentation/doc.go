// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the Notion MCP server.
//
// # Metrics
//
// HTTP (streamable-http transport only):
//   - http_requests_total: requests by method, bounded path and status
//   - http_request_duration_seconds: request durations
//
// Notion API:
//   - notion_api_operations_total: API calls by operation and status
//   - notion_api_operation_duration_seconds: API call durations
//   - notion_api_errors_total: failed calls by bounded error code
//
// MCP tools:
//   - mcp_tool_invocations_total: invocations by tool and status
//   - mcp_tool_duration_seconds: tool execution durations
//
// # Tracing
//
// Spans are created for tool invocations (tool.<name>) and Notion API calls
// (notion.<operation>). The HTTP round trip to Notion is traced by otelhttp.
//
// # Configuration
//
// Instrumentation is configured through environment variables:
//   - INSTRUMENTATION_ENABLED: enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces and metrics
//   - OTEL_TRACES_SAMPLER_ARG: sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: service name (default: notion-mcp)
//   - METRICS_DETAILED_LABELS: add masked database ids to tool metrics
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_IDS: audit log behavior
//
// The stdout exporters write to stderr, since stdout carries the MCP stream
// when serving over stdio.
package instrumentation
