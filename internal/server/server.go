// Package server exposes the vehicle query operations as MCP tools.
// The transport (stdio for AI assistant integration, SSE or streamable
// HTTP for networked clients) owns all request framing; this package
// only maps tool calls onto the dispatcher.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/shikharvashistha/sumo-mcp/internal/config"
	"github.com/shikharvashistha/sumo-mcp/internal/sumo"
	"github.com/shikharvashistha/sumo-mcp/pkg/logging"
)

// Server wraps an MCP server around the query dispatcher.
type Server struct {
	dispatcher *sumo.Dispatcher
	cfg        config.ServerConfig
	version    string

	mcpServer            *server.MCPServer
	sseServer            *server.SSEServer
	streamableHTTPServer *server.StreamableHTTPServer
}

// New creates the MCP server and registers one tool per query operation.
func New(dispatcher *sumo.Dispatcher, cfg config.ServerConfig, version string) *Server {
	mcpServer := server.NewMCPServer(
		"sumo-mcp",
		version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		dispatcher: dispatcher,
		cfg:        cfg,
		version:    version,
		mcpServer:  mcpServer,
	}
	s.registerTools()
	return s
}

// registerTools declares the query tools. Names and descriptions follow
// the capability set of the simulation backend; every tool is read-only.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool(sumo.OpGetVehicles,
		mcp.WithDescription("Get the list of vehicles currently in the simulation"),
	), s.handleGetVehicles)

	vehicleTools := []struct {
		name        string
		description string
		handler     func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	}{
		{sumo.OpGetSpeed, "Get the current speed of a specific vehicle in m/s", s.handleGetSpeed},
		{sumo.OpGetPosition, "Get the current 2D position of a specific vehicle", s.handleGetPosition},
		{sumo.OpGetAcceleration, "Get the current acceleration of a specific vehicle in m/s²", s.handleGetAcceleration},
		{sumo.OpGetLane, "Get the lane a specific vehicle is currently on", s.handleGetLane},
		{sumo.OpGetRoute, "Get the ordered edges of a specific vehicle's route", s.handleGetRoute},
		{sumo.OpGetRouteID, "Get the identifier of the route a specific vehicle follows", s.handleGetRouteID},
	}
	for _, t := range vehicleTools {
		s.mcpServer.AddTool(mcp.NewTool(t.name,
			mcp.WithDescription(t.description),
			mcp.WithString("vehicle_id",
				mcp.Required(),
				mcp.Description("Identifier of the vehicle to query"),
			),
		), t.handler)
	}
}

// Start serves MCP on the configured transport. On stdio it blocks until
// the client closes the stream; on the HTTP transports it blocks until
// the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	switch s.cfg.Transport {
	case config.TransportSSE:
		logging.Info("Server", "serving MCP with SSE transport on %s", addr)
		baseURL := fmt.Sprintf("http://%s", addr)
		s.sseServer = server.NewSSEServer(
			s.mcpServer,
			server.WithBaseURL(baseURL),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
		errCh := make(chan error, 1)
		go func() {
			if err := s.sseServer.Start(addr); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return nil
		}

	case config.TransportStreamableHTTP:
		logging.Info("Server", "serving MCP with streamable-http transport on %s", addr)
		s.streamableHTTPServer = server.NewStreamableHTTPServer(s.mcpServer)
		errCh := make(chan error, 1)
		go func() {
			if err := s.streamableHTTPServer.Start(addr); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return nil
		}

	case config.TransportStdio:
		fallthrough
	default:
		logging.Info("Server", "serving MCP with stdio transport")
		stdioServer := server.NewStdioServer(s.mcpServer)
		return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}
}

// Stop shuts down the HTTP transports. Stdio stops with its context;
// nothing to do for it here. Shutdown failures are logged, not returned:
// teardown must not take the process down.
func (s *Server) Stop(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if s.sseServer != nil {
		if err := s.sseServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "error shutting down SSE server")
		}
	}
	if s.streamableHTTPServer != nil {
		if err := s.streamableHTTPServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "error shutting down streamable HTTP server")
		}
	}
}
