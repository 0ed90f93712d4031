package app

import "github.com/shikharvashistha/sumo-mcp/internal/config"

// Config carries the command-line level settings into the bootstrap.
// Zero values mean "use the configuration file / defaults".
type Config struct {
	// Debug enables verbose logging across the application.
	Debug bool

	// ConfigPath points at a directory with config.yaml and optional
	// .env. Empty means defaults plus environment overrides.
	ConfigPath string

	// SumoHost/SumoPort override the simulation backend coordinates.
	SumoHost string
	SumoPort int

	// Transport/ListenPort override the MCP serving surface.
	Transport  string
	ListenPort int

	// Loaded configuration, populated during bootstrap.
	ServiceConfig *config.Config
}

// NewConfig creates the application configuration from CLI flags.
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}

// applyFlagOverrides lays the CLI flags over the loaded configuration.
// Flags are the outermost layer and win over file and environment.
func (c *Config) applyFlagOverrides(cfg *config.Config) {
	if c.SumoHost != "" {
		cfg.Sumo.Host = c.SumoHost
	}
	if c.SumoPort != 0 {
		cfg.Sumo.Port = c.SumoPort
	}
	if c.Transport != "" {
		cfg.Server.Transport = c.Transport
	}
	if c.ListenPort != 0 {
		cfg.Server.Port = c.ListenPort
	}
}
