package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shikharvashistha/sumo-mcp/internal/app"
)

var (
	serveDebug      bool
	serveConfigPath string
	serveSumoHost   string
	serveSumoPort   int
	serveTransport  string
	serveListenPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server in front of a running SUMO simulation",
	Long: `Starts the MCP server. The simulation connection is lazy: sumo-mcp
starts serving immediately and dials SUMO's remote-control port
(default localhost:8813) when the first query arrives.

By default the server speaks MCP over stdio, which is what AI
assistant integrations expect. Use --transport sse or
--transport streamable-http to serve networked MCP clients instead.

Configuration is layered: built-in defaults, then config.yaml and .env
from --config-path, then SUMO_MCP_* environment variables, then flags.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveConfigPath)
	cfg.SumoHost = serveSumoHost
	cfg.SumoPort = serveSumoPort
	cfg.Transport = serveTransport
	cfg.ListenPort = serveListenPort

	application, err := app.NewApplication(cfg, rootCmd.Version)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", "", "Directory containing config.yaml and optional .env")
	serveCmd.Flags().StringVar(&serveSumoHost, "sumo-host", "", "SUMO remote-control host (overrides configuration)")
	serveCmd.Flags().IntVar(&serveSumoPort, "sumo-port", 0, "SUMO remote-control port (overrides configuration)")
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "MCP transport: stdio, sse or streamable-http (overrides configuration)")
	serveCmd.Flags().IntVar(&serveListenPort, "listen-port", 0, "Bind port for the HTTP transports (overrides configuration)")
}
