package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) handleGetVehicles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicles, err := s.dispatcher.ListVehicles(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

func (s *Server) handleGetSpeed(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicleID, result := vehicleIDArg(request)
	if result != nil {
		return result, nil
	}
	speed, err := s.dispatcher.Speed(ctx, vehicleID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"vehicle_id": vehicleID,
		"speed":      speed,
	})
}

func (s *Server) handleGetPosition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicleID, result := vehicleIDArg(request)
	if result != nil {
		return result, nil
	}
	pos, err := s.dispatcher.Position(ctx, vehicleID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"vehicle_id": vehicleID,
		"position":   pos,
	})
}

func (s *Server) handleGetAcceleration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicleID, result := vehicleIDArg(request)
	if result != nil {
		return result, nil
	}
	acceleration, err := s.dispatcher.Acceleration(ctx, vehicleID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"vehicle_id":   vehicleID,
		"acceleration": acceleration,
	})
}

func (s *Server) handleGetLane(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicleID, result := vehicleIDArg(request)
	if result != nil {
		return result, nil
	}
	lane, err := s.dispatcher.Lane(ctx, vehicleID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"vehicle_id": vehicleID,
		"lane":       lane,
	})
}

func (s *Server) handleGetRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicleID, result := vehicleIDArg(request)
	if result != nil {
		return result, nil
	}
	route, err := s.dispatcher.Route(ctx, vehicleID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"vehicle_id": vehicleID,
		"route":      route,
	})
}

func (s *Server) handleGetRouteID(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicleID, result := vehicleIDArg(request)
	if result != nil {
		return result, nil
	}
	routeID, err := s.dispatcher.RouteID(ctx, vehicleID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]interface{}{
		"vehicle_id": vehicleID,
		"route_id":   routeID,
	})
}

// vehicleIDArg extracts the vehicle_id argument. Presence is checked
// here; emptiness is the dispatcher's validation and is deliberately not
// duplicated.
func vehicleIDArg(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	vehicleID, err := request.RequireString("vehicle_id")
	if err != nil {
		return "", mcp.NewToolResultError("vehicle_id argument is required")
	}
	return vehicleID, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
