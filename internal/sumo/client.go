// Package sumo owns the lifecycle of the single connection to a running
// SUMO simulation and the dispatch of read-only vehicle queries over it.
//
// The backend session is stateful and non-reentrant: TraCI is one ordered
// request/response channel, so every query, the connect that precedes it,
// and the shutdown that ends it all go through one Manager that serializes
// access. Callers never observe connection state directly; they issue
// operations on the Dispatcher and get a value or a typed error.
package sumo

import (
	"context"

	"github.com/shikharvashistha/sumo-mcp/internal/traci"
)

// Position is a 2D simulation-plane coordinate in meters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Client is the capability set this service needs from a simulation
// backend. The concrete implementation speaks TraCI; tests substitute
// fakes. Implementations are not safe for concurrent use — the Manager
// serializes all calls.
type Client interface {
	ListVehicles() ([]string, error)
	Speed(vehicleID string) (float64, error)
	Position(vehicleID string) (Position, error)
	Acceleration(vehicleID string) (float64, error)
	LaneID(vehicleID string) (string, error)
	RouteEdges(vehicleID string) ([]string, error)
	RouteID(vehicleID string) (string, error)
	Close() error
}

// traciClient adapts the TraCI wire client to the Client interface.
type traciClient struct {
	c *traci.Client
}

func (t *traciClient) ListVehicles() ([]string, error) {
	return t.c.ListVehicles()
}

func (t *traciClient) Speed(vehicleID string) (float64, error) {
	return t.c.Speed(vehicleID)
}

func (t *traciClient) Position(vehicleID string) (Position, error) {
	p, err := t.c.Position(vehicleID)
	if err != nil {
		return Position{}, err
	}
	return Position{X: p.X, Y: p.Y}, nil
}

func (t *traciClient) Acceleration(vehicleID string) (float64, error) {
	return t.c.Acceleration(vehicleID)
}

func (t *traciClient) LaneID(vehicleID string) (string, error) {
	return t.c.LaneID(vehicleID)
}

func (t *traciClient) RouteEdges(vehicleID string) ([]string, error) {
	return t.c.RouteEdges(vehicleID)
}

func (t *traciClient) RouteID(vehicleID string) (string, error) {
	return t.c.RouteID(vehicleID)
}

func (t *traciClient) Close() error {
	return t.c.Close()
}

// DialTraCI is the production ConnectFunc: it dials the SUMO
// remote-control port and wraps the session in the Client interface.
func DialTraCI(host string, port int) ConnectFunc {
	return func(ctx context.Context) (Client, error) {
		c, err := traci.Connect(ctx, host, port)
		if err != nil {
			return nil, err
		}
		return &traciClient{c: c}, nil
	}
}
