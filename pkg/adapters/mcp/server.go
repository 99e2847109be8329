package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/feamcp/feamcp/pkg/router"
)

var toolInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "feamcp_tool_invocations_total",
	Help: "Tool invocations by tool name and outcome.",
}, []string{"tool", "outcome"})

// Server exposes the operation router as an MCP server. One MCP tool per
// routed operation; the router owns validation, capability gating and
// serialization, so the transport layer stays thin.
type Server struct {
	router    *router.Router
	log       *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer builds the MCP server and registers every tool. Tools for
// operations outside the bound vendor's capabilities are still listed; they
// fail with an unsupported-operation error so the caller learns the
// capability boundary instead of seeing the tool vanish.
func NewServer(r *router.Router, name, version string, log *slog.Logger) *Server {
	s := &Server{
		router:    r,
		log:       log,
		mcpServer: server.NewMCPServer(name, version),
	}
	s.registerTools()
	return s
}

// ServeStdio serves JSON-RPC on stdin/stdout. Logging must already be bound
// to stderr; a single stray stdout write corrupts the framing.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport over HTTP, alongside health and
// metrics endpoints. Blocks until ctx is cancelled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.log.Info("shutdown signal received, stopping server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
