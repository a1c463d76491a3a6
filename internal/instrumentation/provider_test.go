package instrumentation

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTestProvider creates an enabled provider with a Prometheus exporter and
// registers its shutdown with the test.
func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	provider, err := NewProvider(context.Background(), Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: ExporterPrometheus,
		TracingExporter: ExporterNone,
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()

	handler := provider.PrometheusHandler()
	if handler == nil {
		t.Fatal("expected a Prometheus handler")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read scrape body: %v", err)
	}
	return string(body)
}

func TestNewProvider_Disabled(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{ServiceName: "test-service", Enabled: false})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil even when disabled")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("expected no Prometheus handler when disabled")
	}
	if provider.Tracer("test") == nil {
		t.Error("expected a no-op tracer")
	}
	if err := provider.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no error on shutdown, got %v", err)
	}
}

func TestNewProvider_PrometheusExporter(t *testing.T) {
	provider := newTestProvider(t)

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected metrics to be non-nil")
	}
	if provider.Tracer("test") == nil {
		t.Error("expected tracer to be non-nil")
	}
	if provider.PrometheusEndpoint() != "/metrics" {
		t.Errorf("PrometheusEndpoint = %q, want /metrics", provider.PrometheusEndpoint())
	}
}

func TestProvider_PrometheusHandler_ExposesRecordedMetrics(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	provider.Metrics().RecordNotionAPIOperation(ctx, OperationCreatePage, StatusSuccess, 120*time.Millisecond)
	provider.Metrics().RecordToolInvocation(ctx, "add_calendar_event", StatusSuccess, 150*time.Millisecond)

	body := scrape(t, provider)

	for _, want := range []string{
		"notion_api_operations_total",
		"mcp_tool_invocations_total",
		`tool="add_calendar_event"`,
		`operation="pages.create"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestProvider_SeparateRegistries(t *testing.T) {
	first := newTestProvider(t)
	second := newTestProvider(t)

	first.Metrics().RecordToolInvocation(context.Background(), "add_list_item", StatusError, time.Millisecond)

	if strings.Contains(scrape(t, second), `tool="add_list_item"`) {
		t.Error("metrics recorded on one provider leaked into another")
	}
}

func TestNewProvider_StdoutExporter(t *testing.T) {
	ctx := context.Background()
	previous := devWriter
	devWriter = io.Discard
	t.Cleanup(func() { devWriter = previous })

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: ExporterStdout,
		TracingExporter: ExporterStdout,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if provider.PrometheusHandler() != nil {
		t.Error("expected PrometheusHandler to be nil for stdout exporter")
	}
}

func TestNewProvider_InvalidExporters(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"metrics", Config{Enabled: true, MetricsExporter: "invalid", TracingExporter: ExporterNone}},
		{"tracing", Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: "invalid"}},
		{"otlp tracing without endpoint", Config{Enabled: true, MetricsExporter: ExporterPrometheus, TracingExporter: ExporterOTLP}},
		{"otlp metrics without endpoint", Config{Enabled: true, MetricsExporter: ExporterOTLP, TracingExporter: ExporterNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.ServiceName = "test-service"
			if _, err := NewProvider(context.Background(), tt.config); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewSpanExporter_None(t *testing.T) {
	for _, name := range []string{ExporterNone, ""} {
		exporter, err := newSpanExporter(context.Background(), Config{TracingExporter: name})
		if err != nil {
			t.Fatalf("newSpanExporter(%q) error = %v", name, err)
		}
		if exporter != nil {
			t.Errorf("newSpanExporter(%q) = %T, want nil", name, exporter)
		}
	}
}

func TestNewMetricReader_RegistryOnlyForPrometheus(t *testing.T) {
	ctx := context.Background()

	_, registry, err := newMetricReader(ctx, Config{MetricsExporter: ExporterPrometheus})
	if err != nil {
		t.Fatalf("prometheus reader: %v", err)
	}
	if registry == nil {
		t.Error("expected a registry for the prometheus exporter")
	}

	previous := devWriter
	devWriter = io.Discard
	t.Cleanup(func() { devWriter = previous })

	reader, registry, err := newMetricReader(ctx, Config{MetricsExporter: ExporterStdout})
	if err != nil {
		t.Fatalf("stdout reader: %v", err)
	}
	if registry != nil {
		t.Error("expected no registry for the stdout exporter")
	}
	_ = reader.Shutdown(ctx)
}
