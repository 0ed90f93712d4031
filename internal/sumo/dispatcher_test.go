package sumo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shikharvashistha/sumo-mcp/internal/traci"
)

func newTestDispatcher(backend *fakeBackend) *Dispatcher {
	return NewDispatcher(newTestManager(backend))
}

func TestDispatcherScenario(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDispatcher(backend)
	ctx := context.Background()

	ids, err := d.ListVehicles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v0", "v1"}, ids)

	speed, err := d.Speed(ctx, "v0")
	require.NoError(t, err)
	assert.Equal(t, 13.9, speed)

	_, err = d.Speed(ctx, "missing")
	var queryErr *QueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, OpGetSpeed, queryErr.Operation)
	assert.Equal(t, "missing", queryErr.VehicleID)
	var cmdErr *traci.CommandError
	assert.ErrorAs(t, err, &cmdErr, "cause must stay distinguishable")
}

func TestDispatcherAllVehicleOperations(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDispatcher(backend)
	ctx := context.Background()

	pos, err := d.Position(ctx, "v0")
	require.NoError(t, err)
	assert.Equal(t, Position{X: 101.5, Y: -7.25}, pos)

	acc, err := d.Acceleration(ctx, "v0")
	require.NoError(t, err)
	assert.Equal(t, 1.4, acc)

	lane, err := d.Lane(ctx, "v0")
	require.NoError(t, err)
	assert.Equal(t, "e1_0", lane)

	route, err := d.Route(ctx, "v0")
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e3"}, route)

	routeID, err := d.RouteID(ctx, "v0")
	require.NoError(t, err)
	assert.Equal(t, "route0", routeID)
}

func TestDispatcherEmptyVehicleIDFailsFast(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDispatcher(backend)
	ctx := context.Background()

	ops := map[string]func() error{
		OpGetSpeed:        func() error { _, err := d.Speed(ctx, ""); return err },
		OpGetPosition:     func() error { _, err := d.Position(ctx, ""); return err },
		OpGetAcceleration: func() error { _, err := d.Acceleration(ctx, ""); return err },
		OpGetLane:         func() error { _, err := d.Lane(ctx, ""); return err },
		OpGetRoute:        func() error { _, err := d.Route(ctx, ""); return err },
		OpGetRouteID:      func() error { _, err := d.RouteID(ctx, ""); return err },
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			err := op()
			var invalidErr *InvalidArgumentError
			require.ErrorAs(t, err, &invalidErr)
			assert.Equal(t, "vehicle_id", invalidErr.Argument)
		})
	}

	assert.Equal(t, 0, backend.dialCount(), "validation must precede any backend contact")
	assert.Equal(t, 0, backend.client.callCount())
}

func TestDispatcherConnectionErrorIsNotQueryError(t *testing.T) {
	backend := newFakeBackend()
	backend.setUnreachable(errBackendDown)
	d := newTestDispatcher(backend)

	_, err := d.Speed(context.Background(), "v0")
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	var queryErr *QueryError
	assert.False(t, errors.As(err, &queryErr), "a dial failure must surface as ConnectionError, not QueryError")
}

func TestDispatcherConcurrentQueriesNeverInterleave(t *testing.T) {
	backend := newFakeBackend()
	backend.client.delay = 5 * time.Millisecond
	d := newTestDispatcher(backend)
	ctx := context.Background()

	var wg sync.WaitGroup
	var failures int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				speed, err := d.Speed(ctx, "v0")
				if err != nil || speed != 13.9 {
					atomic.AddInt32(&failures, 1)
				}
			} else {
				lane, err := d.Lane(ctx, "v0")
				if err != nil || lane != "e1_0" {
					atomic.AddInt32(&failures, 1)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&failures), "all concurrent queries must return intact values")
	assert.Zero(t, atomic.LoadInt32(&backend.client.overlaps), "no two backend calls may run at once")
	assert.Equal(t, 1, backend.dialCount(), "racing callers must not create duplicate connections")
}
