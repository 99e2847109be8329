package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/feamcp/feamcp"
	"github.com/feamcp/feamcp/internal/config"
	"github.com/feamcp/feamcp/internal/logging"
	"github.com/feamcp/feamcp/pkg/adapters/mcp"
	"github.com/feamcp/feamcp/pkg/router"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts feamcp as an MCP Server bound to the configured FEA software.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		cfg, logger, closer, err := setup(cmd)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		slog.SetDefault(logger)

		r, err := feamcp.New(cfg, logger)
		if err != nil {
			return err
		}

		// Attach to the vendor up front so the first tool call is fast, but
		// tolerate it being down: tools connect on demand and report
		// connection errors through the taxonomy.
		connectCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		warmUp(connectCtx, r, logger)
		cancel()

		srv := mcp.NewServer(r, cfg.Server.Name, cfg.Server.Version, logger)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("starting MCP server (stdio)", "software", cfg.FEA.Software)
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting MCP server (SSE)", "software", cfg.FEA.Software, "port", port)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return errors.New("unknown transport " + transport + " (supported: stdio, sse)")
		}
	},
}

func warmUp(ctx context.Context, r *router.Router, logger *slog.Logger) {
	resp := r.Dispatch(ctx, "connect", nil)
	if resp.Error != nil {
		logger.Warn("vendor not reachable at startup, will retry on demand",
			"code", resp.Error.Code, "err", resp.Error.Message)
	}
}

func setup(cmd *cobra.Command) (config.Config, *slog.Logger, io.Closer, error) {
	configPath, _ := cmd.Flags().GetString("config")
	logFile, _ := cmd.Flags().GetString("log-file")

	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	if logFile != "" {
		logger, closer, err := logging.NewWithFile(slog.LevelDebug, logFile)
		if err != nil {
			return config.Config{}, nil, nil, err
		}
		return cfg, logger, closer, nil
	}
	return cfg, logging.New(slog.LevelDebug), nil, nil
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
