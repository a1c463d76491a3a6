package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrTool      = "tool"
	attrDatabase  = "database"
	attrErrorCode = "error_code"
)

// Metrics records the server's metrics. The zero value is a no-op recorder.
type Metrics struct {
	// HTTP metrics (streamable-http transport only)
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Notion API metrics
	notionAPIOperationsTotal   metric.Int64Counter
	notionAPIOperationDuration metric.Float64Histogram
	notionAPIErrorsTotal       metric.Int64Counter

	// MCP Tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram

	detailedLabels bool
}

// NewMetrics creates all instruments on meter.
// detailedLabels adds the masked database id to tool metrics.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	m.notionAPIOperationsTotal, err = meter.Int64Counter(
		"notion_api_operations_total",
		metric.WithDescription("Total number of Notion API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notion_api_operations_total counter: %w", err)
	}

	m.notionAPIOperationDuration, err = meter.Float64Histogram(
		"notion_api_operation_duration_seconds",
		metric.WithDescription("Notion API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notion_api_operation_duration_seconds histogram: %w", err)
	}

	m.notionAPIErrorsTotal, err = meter.Int64Counter(
		"notion_api_errors_total",
		metric.WithDescription("Total number of failed Notion API operations by error code"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notion_api_errors_total counter: %w", err)
	}

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request. path should already be bounded
// with NormalizePath.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	)

	m.httpRequestsTotal.Add(ctx, 1, attrs)
	m.httpRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordNotionAPIOperation records a call to the Notion API.
//
// Parameters:
//   - operation: API operation, e.g. OperationCreatePage
//   - status: StatusSuccess or StatusError
//   - duration: time taken for the call
func (m *Metrics) RecordNotionAPIOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.notionAPIOperationsTotal == nil || m.notionAPIOperationDuration == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrService, ServiceNotion),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	)

	m.notionAPIOperationsTotal.Add(ctx, 1, attrs)
	m.notionAPIOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordNotionAPIError counts a failed Notion API call by its bounded error
// code (see ErrorCodeLabel).
func (m *Metrics) RecordNotionAPIError(ctx context.Context, operation string, err error) {
	if m == nil || m.notionAPIErrorsTotal == nil || err == nil {
		return
	}

	m.notionAPIErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrErrorCode, ErrorCodeLabel(err)),
	))
}

// RecordToolInvocation records an MCP tool invocation.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status string, duration time.Duration) {
	m.RecordToolInvocationWithDatabase(ctx, toolName, status, "", duration)
}

// RecordToolInvocationWithDatabase records an MCP tool invocation. The
// database label is only added when detailed labels are enabled.
func (m *Metrics) RecordToolInvocationWithDatabase(ctx context.Context, toolName, status, databaseID string, duration time.Duration) {
	if m == nil || m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && databaseID != "" {
		attrs = append(attrs, attribute.String(attrDatabase, DatabaseLabel(databaseID)))
	}

	opt := metric.WithAttributes(attrs...)
	m.toolInvocationsTotal.Add(ctx, 1, opt)
	m.toolDuration.Record(ctx, duration.Seconds(), opt)
}
