package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/notion-mcp/internal/config"
	"github.com/teemow/notion-mcp/internal/instrumentation"
	"github.com/teemow/notion-mcp/internal/logging"
	"github.com/teemow/notion-mcp/internal/notion"
	"github.com/teemow/notion-mcp/internal/server"
	"github.com/teemow/notion-mcp/internal/tools/notion_tools"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"

	shutdownTimeout = 10 * time.Second
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// serveOptions collects the serve flags.
type serveOptions struct {
	debug      bool
	transport  string
	httpAddr   string
	envFile    string
	configFile string
	metrics    MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server providing the Notion tools
add_calendar_event and add_list_item.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp

Required configuration:
  NOTION_API_TOKEN         Notion integration token

Per-tool configuration (a tool reports an error when its database is unset):
  NOTION_CALENDAR_DB_ID    database used by add_calendar_event
  NOTION_LIST_DB_ID        database used by add_list_item`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadMetricsEnvVars(cmd, &opts.metrics)
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "dotenv file to load before reading the environment")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "TOML config file (default ~/.config/notion-mcp/config.toml)")
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", true, "Serve Prometheus metrics on a separate port (not used with stdio). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadMetricsEnvVars applies METRICS_* environment variables to flags the
// user did not set explicitly.
func loadMetricsEnvVars(cmd *cobra.Command, metrics *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if v := os.Getenv("METRICS_ENABLED"); v != "" {
			metrics.Enabled = strings.EqualFold(v, "true")
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			metrics.Addr = addr
		}
	}
}

func validateTransport(transport string) error {
	switch transport {
	case transportStdio, transportStreamableHTTP:
		return nil
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", transport, transportStdio, transportStreamableHTTP)
	}
}

func runServe(opts serveOptions) error {
	if err := validateTransport(opts.transport); err != nil {
		return err
	}

	// Logs go to stderr so they never mix with the stdio protocol stream
	logger := logging.NewLogger(os.Stderr, opts.debug)
	slog.SetDefault(logger)

	cfg, err := config.Load(config.LoadOptions{EnvFile: opts.envFile, ConfigFile: opts.configFile})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	warnMissingDatabases(logger, cfg)

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	client, err := notion.NewClient(cfg.APIToken, cfg.ClientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create Notion client: %w", err)
	}

	serverOpts := []server.Option{server.WithLogger(logger)}
	if provider.Enabled() {
		serverOpts = append(serverOpts,
			server.WithMetrics(provider.Metrics()),
			server.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)),
		)
	}

	serverContext, err := server.NewServerContext(shutdownCtx, cfg, client, serverOpts...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv, err := newMCPServer(serverContext)
	if err != nil {
		return err
	}

	// Metrics are only served next to the HTTP transport
	if opts.transport != transportStdio && opts.metrics.Enabled && provider.PrometheusHandler() != nil {
		metricsServer, err := startMetricsServer(opts.metrics, provider)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				logger.Warn("error during metrics server shutdown", logging.Err(err))
			}
		}()
	}

	switch opts.transport {
	case transportStreamableHTTP:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, opts.httpAddr)
	default:
		return runStdioServer(mcpSrv)
	}
}

// newMCPServer creates the MCP server with all Notion tools registered.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("notion-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := notion_tools.RegisterNotionTools(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register Notion tools: %w", err)
	}
	return mcpSrv, nil
}

// warnMissingDatabases logs which tools will answer with a configuration
// error. The server still starts.
func warnMissingDatabases(logger *slog.Logger, cfg *config.Config) {
	if cfg.CalendarDBID == "" {
		logger.Warn("calendar database not configured, add_calendar_event will fail",
			slog.String("setting", config.EnvCalendarDBID))
	}
	if cfg.ListDBID == "" {
		logger.Warn("list database not configured, add_list_item will fail",
			slog.String("setting", config.EnvListDBID))
	}
}

func startMetricsServer(cfg MetricsConfig, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.Addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	// A bind failure surfaces almost immediately
	select {
	case err := <-metricsErr:
		if err != nil {
			return nil, fmt.Errorf("metrics server failed to start: %w", err)
		}
	case <-time.After(200 * time.Millisecond):
	}

	return metricsServer, nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string) error {
	httpServer, err := server.NewHTTPServer(server.HTTPServerConfig{
		Addr:          addr,
		MCPServer:     mcpSrv,
		ServerContext: sc,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	slog.Info("HTTP server gracefully stopped")
	return nil
}
