package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/teemow/notion-mcp/internal/config"
	"github.com/teemow/notion-mcp/internal/instrumentation"
	"github.com/teemow/notion-mcp/internal/logging"
	"github.com/teemow/notion-mcp/internal/notion"
)

// ServerContext holds everything tool handlers need: the loaded configuration,
// the Notion client and the observability hooks. It replaces process globals.
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	config       *config.Config
	notionClient notion.PageCreator
	logger       *slog.Logger
	metrics      *instrumentation.Metrics
	auditLogger  *instrumentation.AuditLogger
	mu           sync.RWMutex
	shutdown     bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithLogger sets the logger handed to tool handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(sc *ServerContext) {
		sc.metrics = metrics
	}
}

// WithAuditLogger sets the audit logger.
func WithAuditLogger(al *instrumentation.AuditLogger) Option {
	return func(sc *ServerContext) {
		sc.auditLogger = al
	}
}

// NewServerContext creates a new server context. The config is not validated
// here; missing database ids are reported per tool call.
func NewServerContext(ctx context.Context, cfg *config.Config, client notion.PageCreator, opts ...Option) (*ServerContext, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if client == nil {
		return nil, errors.New("notion client is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		config:       cfg,
		notionClient: client,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration. Callers must not modify it.
func (sc *ServerContext) Config() *config.Config {
	return sc.config
}

// Schema returns the property names used when building pages.
func (sc *ServerContext) Schema() notion.Schema {
	return sc.config.Schema()
}

// NotionClient returns the client used to create pages.
func (sc *ServerContext) NotionClient() notion.PageCreator {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.notionClient
}

// Logger returns the logger for tool handlers.
func (sc *ServerContext) Logger() logging.Logger {
	return logging.NewSlogAdapter(sc.logger)
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics replaces the metrics recorder.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger replaces the audit logger.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context. It is safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
