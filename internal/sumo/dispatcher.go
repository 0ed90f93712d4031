package sumo

import (
	"context"

	"github.com/shikharvashistha/sumo-mcp/pkg/logging"
)

// Operation names, shared with the MCP tool registration so that errors
// and logs identify queries the way callers named them.
const (
	OpGetVehicles     = "get_vehicles"
	OpGetSpeed        = "get_vehicle_speed"
	OpGetPosition     = "get_vehicle_position"
	OpGetAcceleration = "get_vehicle_acceleration"
	OpGetLane         = "get_vehicle_lane"
	OpGetRoute        = "get_vehicle_route"
	OpGetRouteID      = "get_vehicle_route_id"
)

// Dispatcher exposes the query operations. Each operation validates its
// input, runs exactly one backend call under the Manager's connection
// lock, and returns the backend's answer unchanged or a typed error.
// Nothing is cached: every call re-reads live simulation state, so two
// calls with the same arguments may legitimately disagree.
type Dispatcher struct {
	manager *Manager
}

// NewDispatcher creates a Dispatcher on top of the given Manager. The
// Manager is passed in by the composition root, not reached globally.
func NewDispatcher(manager *Manager) *Dispatcher {
	return &Dispatcher{manager: manager}
}

// ListVehicles returns the identifiers of all vehicles currently in the
// simulation.
func (d *Dispatcher) ListVehicles(ctx context.Context) ([]string, error) {
	var ids []string
	err := d.manager.Do(ctx, func(c Client) error {
		v, err := c.ListVehicles()
		if err != nil {
			return &QueryError{Operation: OpGetVehicles, Err: err}
		}
		ids = v
		return nil
	})
	d.logOutcome(OpGetVehicles, "", err)
	return ids, err
}

// Speed returns the vehicle's current speed in m/s.
func (d *Dispatcher) Speed(ctx context.Context, vehicleID string) (float64, error) {
	var speed float64
	err := d.vehicleQuery(ctx, OpGetSpeed, vehicleID, func(c Client) error {
		v, err := c.Speed(vehicleID)
		speed = v
		return err
	})
	return speed, err
}

// Position returns the vehicle's current 2D position.
func (d *Dispatcher) Position(ctx context.Context, vehicleID string) (Position, error) {
	var pos Position
	err := d.vehicleQuery(ctx, OpGetPosition, vehicleID, func(c Client) error {
		v, err := c.Position(vehicleID)
		pos = v
		return err
	})
	return pos, err
}

// Acceleration returns the vehicle's current acceleration in m/s².
func (d *Dispatcher) Acceleration(ctx context.Context, vehicleID string) (float64, error) {
	var acc float64
	err := d.vehicleQuery(ctx, OpGetAcceleration, vehicleID, func(c Client) error {
		v, err := c.Acceleration(vehicleID)
		acc = v
		return err
	})
	return acc, err
}

// Lane returns the identifier of the lane the vehicle is on.
func (d *Dispatcher) Lane(ctx context.Context, vehicleID string) (string, error) {
	var lane string
	err := d.vehicleQuery(ctx, OpGetLane, vehicleID, func(c Client) error {
		v, err := c.LaneID(vehicleID)
		lane = v
		return err
	})
	return lane, err
}

// Route returns the ordered edge identifiers of the vehicle's route.
func (d *Dispatcher) Route(ctx context.Context, vehicleID string) ([]string, error) {
	var edges []string
	err := d.vehicleQuery(ctx, OpGetRoute, vehicleID, func(c Client) error {
		v, err := c.RouteEdges(vehicleID)
		edges = v
		return err
	})
	return edges, err
}

// RouteID returns the identifier of the route the vehicle follows.
func (d *Dispatcher) RouteID(ctx context.Context, vehicleID string) (string, error) {
	var routeID string
	err := d.vehicleQuery(ctx, OpGetRouteID, vehicleID, func(c Client) error {
		v, err := c.RouteID(vehicleID)
		routeID = v
		return err
	})
	return routeID, err
}

// vehicleQuery is the shared shape of every vehicle-scoped operation:
// validate the id before touching the backend, then one client call
// under the connection lock, wrapping backend failures as QueryError.
func (d *Dispatcher) vehicleQuery(ctx context.Context, operation, vehicleID string, call func(Client) error) error {
	if vehicleID == "" {
		err := &InvalidArgumentError{Argument: "vehicle_id", Reason: "must not be empty"}
		d.logOutcome(operation, vehicleID, err)
		return err
	}

	err := d.manager.Do(ctx, func(c Client) error {
		if err := call(c); err != nil {
			return &QueryError{Operation: operation, VehicleID: vehicleID, Err: err}
		}
		return nil
	})
	d.logOutcome(operation, vehicleID, err)
	return err
}

func (d *Dispatcher) logOutcome(operation, vehicleID string, err error) {
	if err != nil {
		logging.Error("Dispatcher", err, "%s failed (vehicle=%q)", operation, vehicleID)
		return
	}
	logging.Debug("Dispatcher", "%s ok (vehicle=%q)", operation, vehicleID)
}
