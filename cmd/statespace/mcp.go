package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/statespace/internal/cli"
	"github.com/aretw0/statespace/internal/config"
	"github.com/aretw0/statespace/pkg/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the statespace engine as an MCP Server.
This allows AI agents to generate, export and validate state spaces as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		// Logs go to Stderr so they never corrupt JSON-RPC on Stdout
		logger := cli.CreateLogger(cfg)
		slog.SetDefault(logger)
		log.SetOutput(os.Stderr)

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		engine, closeCache, err := cli.NewEngine(sc, cfg, logger)
		if err != nil {
			log.Fatalf("Error initializing statespace: %v", err)
		}
		defer closeCache()

		srv := mcp.NewServer(engine, mcp.WithLimits(cli.RemoteLimits(cfg)))

		switch cfg.MCP.Transport {
		case config.TransportStdio:
			slog.Info("Starting statespace MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case config.TransportSSE:
			slog.Info("Starting statespace MCP Server (SSE)", "port", cfg.MCP.Port)
			if err := srv.ServeSSE(sc, cfg.MCP.Port); err != nil && err != http.ErrServerClosed {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
			slog.Info("MCP Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("sse-port", 8081, "Port to listen on (only for SSE)")
}
