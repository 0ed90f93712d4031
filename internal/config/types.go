// Package config defines the service configuration and its loading rules.
// Values come from three layers, later ones winning: built-in defaults,
// an optional config.yaml, and environment variables (with .env support
// for local development).
package config

// MCP transport identifiers.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// Config is the top-level configuration for sumo-mcp.
type Config struct {
	Sumo   SumoConfig   `yaml:"sumo"`
	Server ServerConfig `yaml:"server"`
}

// SumoConfig locates the simulation backend.
type SumoConfig struct {
	Host string `yaml:"host,omitempty"` // SUMO remote-control host (default: localhost)
	Port int    `yaml:"port,omitempty"` // SUMO remote-control port (default: 8813)
}

// ServerConfig defines how the MCP surface is exposed.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // stdio, sse or streamable-http (default: stdio)
	Host      string `yaml:"host,omitempty"`      // bind host for HTTP transports (default: localhost)
	Port      int    `yaml:"port,omitempty"`      // bind port for HTTP transports (default: 8090)
}

// GetDefaultConfig returns the built-in defaults: a simulation on the
// standard SUMO remote-control port, served over stdio.
func GetDefaultConfig() Config {
	return Config{
		Sumo: SumoConfig{
			Host: "localhost",
			Port: 8813,
		},
		Server: ServerConfig{
			Transport: TransportStdio,
			Host:      "localhost",
			Port:      8090,
		},
	}
}
