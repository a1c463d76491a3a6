package instrumentation

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

const (
	testDatabaseID = "8a3f0c2e9b7d4e1f"
	testMaskedID   = "8a3f****4e1f"
	testToolCal    = "add_calendar_event"
	testToolList   = "add_list_item"
)

func attrsToMap(attrs []slog.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.String()
	}
	return m
}

func TestToolInvocation_NewAndComplete(t *testing.T) {
	ti := NewToolInvocation(testToolCal)

	if ti.Tool != testToolCal {
		t.Errorf("Tool = %q, want %q", ti.Tool, testToolCal)
	}
	if ti.StartTime.IsZero() {
		t.Error("StartTime should not be zero")
	}

	ti.CompleteSuccess()

	if !ti.Success {
		t.Error("Success should be true")
	}
	if ti.Duration < 0 {
		t.Error("Duration should not be negative")
	}
	if ti.Status() != StatusSuccess {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusSuccess)
	}
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation(testToolList).
		WithErrorKind("external").
		CompleteWithError(errors.New("object_not_found"))

	if ti.Success {
		t.Error("Success should be false")
	}
	if ti.Error != "object_not_found" {
		t.Errorf("Error = %q", ti.Error)
	}
	if ti.Status() != StatusError {
		t.Errorf("Status() = %q, want %q", ti.Status(), StatusError)
	}
}

func TestToolInvocation_LogAttrs(t *testing.T) {
	ti := NewToolInvocation(testToolCal).
		WithDatabase(testDatabaseID, OperationCreatePage).
		WithPage("page-1")
	ti.TraceID = "trace-1"
	ti.SpanID = "span-1"
	ti.CompleteSuccess()

	masked := attrsToMap(ti.LogAttrs(false))
	if masked["database"] != testMaskedID {
		t.Errorf("database = %q, want masked id", masked["database"])
	}
	if masked["operation"] != OperationCreatePage {
		t.Errorf("operation = %q", masked["operation"])
	}
	if masked["page_id"] != "page-1" {
		t.Errorf("page_id = %q", masked["page_id"])
	}
	if masked["trace_id"] != "trace-1" {
		t.Errorf("trace_id = %q", masked["trace_id"])
	}
	if _, ok := masked["span_id"]; ok {
		t.Error("span_id should only be logged with includeIDs")
	}
	if _, ok := masked["error"]; ok {
		t.Error("error should be omitted on success")
	}

	full := attrsToMap(ti.LogAttrs(true))
	if full["database"] != testDatabaseID {
		t.Errorf("database = %q, want full id", full["database"])
	}
	if full["span_id"] != "span-1" {
		t.Errorf("span_id = %q", full["span_id"])
	}
}

func TestToolInvocation_LogAttrs_Minimal(t *testing.T) {
	attrs := NewToolInvocation(testToolList).CompleteSuccess().LogAttrs(false)

	if len(attrs) != 3 {
		t.Errorf("expected tool, duration and success only, got %d attrs", len(attrs))
	}
}

func TestToolInvocation_WithSpanContext(t *testing.T) {
	recordSpans(t)

	ctx, span := StartToolSpan(context.Background(), testToolCal)
	defer span.End()

	ti := NewToolInvocation(testToolCal).WithSpanContext(ctx)
	if ti.TraceID == "" || ti.SpanID == "" {
		t.Error("expected trace and span ids from context")
	}

	empty := NewToolInvocation(testToolCal).WithSpanContext(context.Background())
	if empty.TraceID != "" || empty.SpanID != "" {
		t.Error("expected no ids without a span")
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	al := NewAuditLogger(logger)

	al.LogToolInvocation(NewToolInvocation(testToolCal).
		WithDatabase(testDatabaseID, OperationCreatePage).
		CompleteSuccess())
	al.LogToolInvocation(NewToolInvocation(testToolList).
		WithErrorKind("configuration").
		CompleteWithError(errors.New("NOTION_LIST_DB_ID environment variable is not set")))

	out := buf.String()
	for _, want := range []string{
		"level=INFO msg=tool_executed tool=add_calendar_event",
		"database=" + testMaskedID,
		"level=WARN msg=tool_failed tool=add_list_item",
		"error_kind=configuration",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("audit output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, testDatabaseID) {
		t.Error("full database id logged without IncludeIDs")
	}
}

func TestAuditLogger_IncludeIDs(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)),
		AuditLoggingConfig{Enabled: true, IncludeIDs: true})

	al.LogToolInvocation(NewToolInvocation(testToolCal).
		WithDatabase(testDatabaseID, OperationCreatePage).
		CompleteSuccess())

	if !strings.Contains(buf.String(), "database="+testDatabaseID) {
		t.Errorf("expected full database id, got %s", buf.String())
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(slog.New(slog.NewTextHandler(&buf, nil)), AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation(testToolCal).CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("disabled audit logger wrote output: %s", buf.String())
	}
}

func TestAuditLogger_NilSafe(t *testing.T) {
	var al *AuditLogger
	al.LogToolInvocation(NewToolInvocation(testToolCal).CompleteSuccess())

	if NewAuditLogger(nil) == nil {
		t.Error("NewAuditLogger(nil) should fall back to the default logger")
	}
}
