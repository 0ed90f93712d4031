package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/shikharvashistha/sumo-mcp/pkg/logging"
)

// Environment variable names recognized by applyEnvOverrides.
const (
	EnvSumoHost   = "SUMO_MCP_SUMO_HOST"
	EnvSumoPort   = "SUMO_MCP_SUMO_PORT"
	EnvTransport  = "SUMO_MCP_TRANSPORT"
	EnvListenHost = "SUMO_MCP_LISTEN_HOST"
	EnvListenPort = "SUMO_MCP_LISTEN_PORT"
)

// LoadConfig returns the defaults with environment overrides applied.
// Used when no configuration directory is given.
func LoadConfig() (Config, error) {
	cfg := GetDefaultConfig()
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, validate(cfg)
}

// LoadConfigFromPath reads config.yaml from the given directory on top of
// the defaults, then applies environment overrides. A missing config.yaml
// is not an error; the directory may carry only a .env file.
func LoadConfigFromPath(path string) (Config, error) {
	cfg := GetDefaultConfig()

	configFile := filepath.Join(path, "config.yaml")
	data, err := os.ReadFile(configFile)
	switch {
	case os.IsNotExist(err):
		logging.Debug("Config", "no config.yaml in %s, using defaults", path)
	case err != nil:
		return Config{}, fmt.Errorf("reading %s: %w", configFile, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", configFile, err)
		}
		logging.Info("Config", "loaded configuration from %s", configFile)
	}

	// A .env alongside config.yaml feeds the same overrides used in
	// production, without touching the parent environment.
	envFile := filepath.Join(path, ".env")
	if _, statErr := os.Stat(envFile); statErr == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
		logging.Debug("Config", "loaded environment from %s", envFile)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, validate(cfg)
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvSumoHost); v != "" {
		cfg.Sumo.Host = v
	}
	if v := os.Getenv(EnvSumoPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvSumoPort, v, err)
		}
		cfg.Sumo.Port = port
	}
	if v := os.Getenv(EnvTransport); v != "" {
		cfg.Server.Transport = v
	}
	if v := os.Getenv(EnvListenHost); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv(EnvListenPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s=%q: %w", EnvListenPort, v, err)
		}
		cfg.Server.Port = port
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.Sumo.Host == "" {
		return fmt.Errorf("sumo.host must not be empty")
	}
	if cfg.Sumo.Port <= 0 || cfg.Sumo.Port > 65535 {
		return fmt.Errorf("sumo.port %d out of range", cfg.Sumo.Port)
	}
	switch cfg.Server.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unknown transport %q", cfg.Server.Transport)
	}
	if cfg.Server.Transport != TransportStdio {
		if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
			return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
		}
	}
	return nil
}
