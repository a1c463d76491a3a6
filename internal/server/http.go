package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/notion-mcp/internal/instrumentation"
)

// MCPEndpointPath is where the streamable-http transport serves MCP.
const MCPEndpointPath = "/mcp"

// DefaultHTTPAddr is the default listen address for the HTTP transport.
const DefaultHTTPAddr = ":8080"

// HTTPServerConfig holds configuration for the streamable-http transport.
type HTTPServerConfig struct {
	Addr          string
	MCPServer     *mcpserver.MCPServer
	ServerContext *ServerContext
}

// HTTPServer serves MCP over streamable HTTP alongside health probes.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	serverContext *ServerContext
	health        *HealthChecker

	mu         sync.Mutex
	addr       string
	httpServer *http.Server
}

// NewHTTPServer creates the HTTP transport server.
func NewHTTPServer(config HTTPServerConfig) (*HTTPServer, error) {
	if config.MCPServer == nil {
		return nil, errors.New("MCP server is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}

	return &HTTPServer{
		mcpServer:     config.MCPServer,
		serverContext: config.ServerContext,
		health:        NewHealthChecker(config.ServerContext),
		addr:          config.Addr,
	}, nil
}

// HealthChecker returns the server's health checker.
func (s *HTTPServer) HealthChecker() *HealthChecker {
	return s.health
}

// Handler returns the routes of the HTTP transport wrapped in request metrics.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(MCPEndpointPath),
	)
	mux.Handle(MCPEndpointPath, streamable)
	s.health.RegisterHealthEndpoints(mux)

	return s.metricsMiddleware(mux)
}

// Start binds the listener and serves until Shutdown. It blocks.
func (s *HTTPServer) Start() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.httpServer = srv
	s.mu.Unlock()

	slog.Info("starting MCP HTTP server", "addr", ln.Addr().String(), "endpoint", MCPEndpointPath)
	return srv.Serve(ln)
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Addr returns the listen address, resolved once Start has bound it.
func (s *HTTPServer) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps streaming responses working through the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		if s.serverContext == nil {
			return
		}
		s.serverContext.Metrics().RecordHTTPRequest(r.Context(), r.Method,
			instrumentation.NormalizePath(r.URL.Path), rec.status, time.Since(start))
	})
}
