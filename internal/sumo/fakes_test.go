package sumo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shikharvashistha/sumo-mcp/internal/traci"
)

// fakeClient is a scriptable in-memory backend. Unknown vehicle ids are
// rejected the way SUMO rejects them, as a command error that leaves the
// session usable.
type fakeClient struct {
	vehicles      []string
	speeds        map[string]float64
	positions     map[string]Position
	accelerations map[string]float64
	lanes         map[string]string
	routes        map[string][]string
	routeIDs      map[string]string

	callErr  error // forced failure for every query when set
	closeErr error
	delay    time.Duration

	mu       sync.Mutex
	calls    []string
	closes   int
	inFlight int32
	overlaps int32
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		vehicles:      []string{"v0", "v1"},
		speeds:        map[string]float64{"v0": 13.9, "v1": 8.2},
		positions:     map[string]Position{"v0": {X: 101.5, Y: -7.25}},
		accelerations: map[string]float64{"v0": 1.4},
		lanes:         map[string]string{"v0": "e1_0"},
		routes:        map[string][]string{"v0": {"e1", "e2", "e3"}},
		routeIDs:      map[string]string{"v0": "route0"},
	}
}

// enter instruments each backend call so the tests can assert that the
// connection lock kept concurrent operations from overlapping.
func (f *fakeClient) enter(call string) func() {
	if atomic.AddInt32(&f.inFlight, 1) > 1 {
		atomic.AddInt32(&f.overlaps, 1)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return func() { atomic.AddInt32(&f.inFlight, -1) }
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeClient) known(vehicleID string) error {
	if f.callErr != nil {
		return f.callErr
	}
	for _, id := range f.vehicles {
		if id == vehicleID {
			return nil
		}
	}
	return &traci.CommandError{Command: 0xa4, Description: "Vehicle '" + vehicleID + "' is not known"}
}

func (f *fakeClient) ListVehicles() ([]string, error) {
	defer f.enter("ListVehicles")()
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.vehicles, nil
}

func (f *fakeClient) Speed(vehicleID string) (float64, error) {
	defer f.enter("Speed")()
	if err := f.known(vehicleID); err != nil {
		return 0, err
	}
	return f.speeds[vehicleID], nil
}

func (f *fakeClient) Position(vehicleID string) (Position, error) {
	defer f.enter("Position")()
	if err := f.known(vehicleID); err != nil {
		return Position{}, err
	}
	return f.positions[vehicleID], nil
}

func (f *fakeClient) Acceleration(vehicleID string) (float64, error) {
	defer f.enter("Acceleration")()
	if err := f.known(vehicleID); err != nil {
		return 0, err
	}
	return f.accelerations[vehicleID], nil
}

func (f *fakeClient) LaneID(vehicleID string) (string, error) {
	defer f.enter("LaneID")()
	if err := f.known(vehicleID); err != nil {
		return "", err
	}
	return f.lanes[vehicleID], nil
}

func (f *fakeClient) RouteEdges(vehicleID string) ([]string, error) {
	defer f.enter("RouteEdges")()
	if err := f.known(vehicleID); err != nil {
		return nil, err
	}
	return f.routes[vehicleID], nil
}

func (f *fakeClient) RouteID(vehicleID string) (string, error) {
	defer f.enter("RouteID")()
	if err := f.known(vehicleID); err != nil {
		return "", err
	}
	return f.routeIDs[vehicleID], nil
}

func (f *fakeClient) Close() error {
	f.mu.Lock()
	f.closes++
	f.mu.Unlock()
	return f.closeErr
}

// fakeBackend fabricates fakeClient sessions and counts dial attempts.
// Setting dialErr makes the backend unreachable until cleared.
type fakeBackend struct {
	mu      sync.Mutex
	dials   int
	dialErr error
	client  *fakeClient
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{client: newFakeClient()}
}

func (b *fakeBackend) connect(ctx context.Context) (Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dials++
	if b.dialErr != nil {
		return nil, b.dialErr
	}
	return b.client, nil
}

func (b *fakeBackend) dialCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dials
}

func (b *fakeBackend) setUnreachable(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dialErr = err
}

var errBackendDown = errors.New("connection refused")
