package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/notion-mcp/internal/config"
	"github.com/teemow/notion-mcp/internal/instrumentation"
	"github.com/teemow/notion-mcp/internal/notion"
	"github.com/teemow/notion-mcp/internal/server"
)

type stubPageCreator struct {
	page  *notion.Page
	err   error
	calls int
}

func (s *stubPageCreator) CreatePage(context.Context, *notion.PageRequest) (*notion.Page, error) {
	s.calls++
	return s.page, s.err
}

func newServerContext(t *testing.T, client notion.PageCreator) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), &config.Config{APIToken: "t"}, client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newTestProvider(t *testing.T) *instrumentation.Provider {
	t.Helper()
	provider, err := instrumentation.NewProvider(context.Background(), instrumentation.Config{
		ServiceName:     "test-service",
		Enabled:         true,
		MetricsExporter: instrumentation.ExporterPrometheus,
		TracingExporter: instrumentation.ExporterNone,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func scrape(t *testing.T, provider *instrumentation.Provider) string {
	t.Helper()
	rec := httptest.NewRecorder()
	provider.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestStringArg(t *testing.T) {
	args := map[string]any{"title": "Buy milk", "empty": "", "number": 42}

	v, ok := StringArg(args, "title")
	assert.True(t, ok)
	assert.Equal(t, "Buy milk", v)

	for _, name := range []string{"empty", "number", "missing"} {
		_, ok := StringArg(args, name)
		assert.False(t, ok, name)
	}

	_, ok = StringArg(nil, "title")
	assert.False(t, ok)
}

func TestOptionalStringArg(t *testing.T) {
	args := map[string]any{"status": "Done", "description": "", "priority": true}

	assert.Equal(t, "Done", OptionalStringArg(args, "status", "Not Started"))
	assert.Equal(t, "", OptionalStringArg(args, "description", "fallback"), "explicit empty string is kept")
	assert.Equal(t, "Medium", OptionalStringArg(args, "priority", "Medium"), "wrong type falls back")
	assert.Equal(t, "Medium", OptionalStringArg(args, "missing", "Medium"))
}

func TestCreatePage_Success(t *testing.T) {
	stub := &stubPageCreator{page: &notion.Page{ID: "page-1", URL: "https://x/1"}}
	sc := newServerContext(t, stub)
	provider := newTestProvider(t)
	sc.SetMetrics(provider.Metrics())

	req := notion.DefaultSchema().BuildListPageRequest("db", "Buy milk", "", "", "")
	page, err := CreatePage(context.Background(), sc, req)

	require.NoError(t, err)
	assert.Equal(t, "https://x/1", page.URL)
	assert.Equal(t, 1, stub.calls)
	assert.Contains(t, scrape(t, provider), `status="success"`)
}

func TestCreatePage_Error(t *testing.T) {
	apiErr := &notion.APIError{Status: 400, Code: "validation_error", Message: "bad property"}
	stub := &stubPageCreator{err: apiErr}
	sc := newServerContext(t, stub)
	provider := newTestProvider(t)
	sc.SetMetrics(provider.Metrics())

	_, err := CreatePage(context.Background(), sc, notion.DefaultSchema().BuildListPageRequest("db", "x", "", "", ""))

	assert.ErrorIs(t, err, apiErr)
	body := scrape(t, provider)
	assert.Contains(t, body, "notion_api_errors_total")
	assert.Contains(t, body, `error_code="validation_error"`)
}

func TestCreatePage_NilPage(t *testing.T) {
	sc := newServerContext(t, &stubPageCreator{})

	page, err := CreatePage(context.Background(), sc, notion.DefaultSchema().BuildListPageRequest("db", "x", "", "", ""))

	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Empty(t, page.URL)
}

func TestCreatePage_WithoutMetrics(t *testing.T) {
	sc := newServerContext(t, &stubPageCreator{err: errors.New("network down")})

	_, err := CreatePage(context.Background(), sc, notion.DefaultSchema().BuildListPageRequest("db", "x", "", "", ""))
	assert.EqualError(t, err, "network down")
}

func TestRecordHelpers_OutsideInvocation(t *testing.T) {
	// no invocation in context: must not panic
	ctx := context.Background()
	RecordDatabase(ctx, "db")
	RecordPage(ctx, "page")
	RecordErrorKind(ctx, "external")
	assert.Nil(t, invocationFromContext(ctx))
}
