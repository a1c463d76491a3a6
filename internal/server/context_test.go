package server

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/notion-mcp/internal/config"
	"github.com/teemow/notion-mcp/internal/instrumentation"
	"github.com/teemow/notion-mcp/internal/notion"
)

type nopPageCreator struct{}

func (nopPageCreator) CreatePage(context.Context, *notion.PageRequest) (*notion.Page, error) {
	return &notion.Page{ID: "page"}, nil
}

func newTestServerContext(t *testing.T, cfg *config.Config) *ServerContext {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{APIToken: "token", CalendarDBID: "cal", ListDBID: "list"}
	}
	sc, err := NewServerContext(context.Background(), cfg, nopPageCreator{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestNewServerContext_RequiresDependencies(t *testing.T) {
	_, err := NewServerContext(context.Background(), nil, nopPageCreator{})
	assert.Error(t, err)

	_, err = NewServerContext(context.Background(), &config.Config{}, nil)
	assert.Error(t, err)
}

func TestServerContext_Accessors(t *testing.T) {
	cfg := &config.Config{
		APIToken:       "token",
		CalendarDBID:   "cal",
		TitleProperty:  "Name",
		StatusProperty: "Status",
	}
	metrics := &instrumentation.Metrics{}
	audit := instrumentation.NewAuditLogger(nil)

	sc, err := NewServerContext(context.Background(), cfg, nopPageCreator{},
		WithLogger(slog.Default()),
		WithMetrics(metrics),
		WithAuditLogger(audit),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.Same(t, cfg, sc.Config())
	assert.Equal(t, "Name", sc.Schema().TitleProperty)
	assert.Equal(t, "Status", sc.Schema().StatusProperty)
	assert.NotNil(t, sc.NotionClient())
	assert.NotNil(t, sc.Logger())
	assert.Same(t, metrics, sc.Metrics())
	assert.Same(t, audit, sc.AuditLogger())
}

func TestServerContext_SetObservability(t *testing.T) {
	sc := newTestServerContext(t, nil)

	assert.Nil(t, sc.Metrics())
	assert.Nil(t, sc.AuditLogger())

	metrics := &instrumentation.Metrics{}
	sc.SetMetrics(metrics)
	assert.Same(t, metrics, sc.Metrics())

	audit := instrumentation.NewAuditLogger(nil)
	sc.SetAuditLogger(audit)
	assert.Same(t, audit, sc.AuditLogger())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := newTestServerContext(t, nil)

	assert.False(t, sc.IsShutdown())
	require.NoError(t, sc.Context().Err())

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)

	// second shutdown is a no-op
	assert.NoError(t, sc.Shutdown())
}
