package instrumentation

import (
	"context"
	"errors"

	"github.com/teemow/notion-mcp/internal/logging"
)

// Cardinality management helpers for metrics.
// These reduce free-form values to a bounded set of label values.

// Known error codes returned by the Notion API. Anything else is reported
// as "other".
var knownErrorCodes = map[string]struct{}{
	"invalid_json":                    {},
	"invalid_request_url":             {},
	"invalid_request":                 {},
	"validation_error":                {},
	"missing_version":                 {},
	"unauthorized":                    {},
	"restricted_resource":             {},
	"object_not_found":                {},
	"conflict_error":                  {},
	"rate_limited":                    {},
	"internal_server_error":           {},
	"bad_gateway":                     {},
	"service_unavailable":             {},
	"database_connection_unavailable": {},
	"gateway_timeout":                 {},
}

// codedError is implemented by API errors that carry a machine-readable code.
type codedError interface {
	ErrorCode() string
}

// ErrorCodeLabel maps err to a bounded label value.
//
// Example:
//
//	ErrorCodeLabel(&notion.APIError{Code: "object_not_found"}) // "object_not_found"
//	ErrorCodeLabel(context.DeadlineExceeded)                    // "timeout"
//	ErrorCodeLabel(errors.New("dial tcp: refused"))             // "unknown"
func ErrorCodeLabel(err error) string {
	if err == nil {
		return ""
	}

	var coded codedError
	if errors.As(err, &coded) {
		if _, ok := knownErrorCodes[coded.ErrorCode()]; ok {
			return coded.ErrorCode()
		}
		return "other"
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "unknown"
}

// Paths served by the streamable-http transport. Requests to any other
// path are recorded as "other".
var knownPaths = map[string]struct{}{
	"/mcp":              {},
	"/healthz":          {},
	"/readyz":           {},
	"/healthz/detailed": {},
}

// NormalizePath bounds an HTTP request path for use as a metric label.
func NormalizePath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	return "other"
}

// DatabaseLabel shortens a database id for use as a metric label.
func DatabaseLabel(id string) string {
	return logging.MaskID(id)
}
