package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the sumo-mcp application.
var rootCmd = &cobra.Command{
	Use:   "sumo-mcp",
	Short: "Expose a running SUMO traffic simulation through the Model Context Protocol",
	Long: `sumo-mcp connects to a running SUMO traffic-simulation process over
its TraCI remote-control port and exposes live, read-only vehicle
queries (vehicle list, speed, position, acceleration, lane, route) as
MCP tools for AI assistants and other MCP clients.`,
	// SilenceUsage prevents cobra from printing usage on errors the
	// application already reported.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command. Called from main to
// inject the build version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "sumo-mcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
