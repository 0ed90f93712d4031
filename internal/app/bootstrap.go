// Package app is the composition root: it loads configuration, wires the
// connection manager into the dispatcher and the MCP server, and runs the
// whole thing with signal-driven shutdown. The manager is constructed
// here and passed down; no component reaches it through a global.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shikharvashistha/sumo-mcp/internal/config"
	"github.com/shikharvashistha/sumo-mcp/internal/server"
	"github.com/shikharvashistha/sumo-mcp/internal/sumo"
	"github.com/shikharvashistha/sumo-mcp/pkg/logging"
)

// Application bundles the wired components for one process run.
type Application struct {
	config  *Config
	manager *sumo.Manager
	server  *server.Server
}

// NewApplication performs the bootstrap sequence: logging, configuration,
// then the manager → dispatcher → server wiring.
func NewApplication(cfg *Config, version string) (*Application, error) {
	logLevel := logging.LevelInfo
	if cfg.Debug {
		logLevel = logging.LevelDebug
	}
	// Logs always go to stderr: on the stdio transport, stdout belongs
	// to the MCP protocol stream.
	var logOutput io.Writer = os.Stderr
	logging.Init(logLevel, logOutput)

	var serviceCfg config.Config
	var err error
	if cfg.ConfigPath != "" {
		serviceCfg, err = config.LoadConfigFromPath(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "failed to load configuration from %s", cfg.ConfigPath)
			return nil, fmt.Errorf("loading configuration from %s: %w", cfg.ConfigPath, err)
		}
	} else {
		serviceCfg, err = config.LoadConfig()
		if err != nil {
			logging.Error("Bootstrap", err, "failed to load configuration")
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
	}
	cfg.applyFlagOverrides(&serviceCfg)
	cfg.ServiceConfig = &serviceCfg

	manager := sumo.NewManager(serviceCfg.Sumo.Host, serviceCfg.Sumo.Port)
	dispatcher := sumo.NewDispatcher(manager)
	srv := server.New(dispatcher, serviceCfg.Server, version)

	return &Application{
		config:  cfg,
		manager: manager,
		server:  srv,
	}, nil
}

// Run serves MCP until the context is cancelled, then tears the backend
// connection down. Teardown never propagates failures past logging.
func (a *Application) Run(ctx context.Context) error {
	// Probe the backend once at startup so a misconfigured host shows up
	// in the logs immediately. Connection stays lazy: a failure here is
	// reported and the first query simply dials again.
	if err := a.manager.Probe(ctx); err != nil {
		logging.Warn("Bootstrap", "simulation not reachable yet: %v", err)
	}

	err := a.server.Start(ctx)
	if errors.Is(err, context.Canceled) {
		// Cancellation is the normal shutdown path, not a failure.
		err = nil
	}

	a.server.Stop(context.Background())
	a.manager.Shutdown()
	logging.Info("Bootstrap", "sumo-mcp shut down")
	return err
}
