package sumo

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/shikharvashistha/sumo-mcp/internal/traci"
	"github.com/shikharvashistha/sumo-mcp/pkg/logging"
)

// State is the lifecycle state of the backend connection.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConnectFunc establishes a new backend session. The production one is
// DialTraCI; tests inject fakes.
type ConnectFunc func(ctx context.Context) (Client, error)

// Manager owns the single backend connection. Connecting is lazy: the
// first operation that needs the backend dials it, later operations
// reuse the session. One mutex serializes establishment, queries and
// shutdown, because the session cannot carry interleaved requests.
type Manager struct {
	host    string
	port    int
	connect ConnectFunc

	mu      sync.Mutex
	client  Client
	state   State
	lastErr error
	connID  string
}

// NewManager creates a Manager that dials SUMO's remote-control port at
// host:port on first use.
func NewManager(host string, port int) *Manager {
	return &Manager{host: host, port: port, connect: DialTraCI(host, port)}
}

// NewManagerWithConnect creates a Manager with a custom ConnectFunc.
// Used by tests to substitute stub backends.
func NewManagerWithConnect(host string, port int, connect ConnectFunc) *Manager {
	return &Manager{host: host, port: port, connect: connect}
}

// State reports the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastError reports the cause recorded for the most recent transition to
// StateFailed, or nil.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Do runs fn with the shared backend client while holding the connection
// lock, establishing the connection first if needed. fn must not retain
// the client past its return. Do blocks until the lock is free; there is
// no queueing priority and no timeout on backend calls.
func (m *Manager) Do(ctx context.Context, fn func(Client) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	client, err := m.ensureConnectedLocked(ctx)
	if err != nil {
		return err
	}

	if err := fn(client); err != nil {
		if invalidatesConnection(err) {
			logging.Warn("SUMO", "connection %s invalidated: %v", m.connID, err)
			_ = m.client.Close()
			m.client = nil
			m.state = StateFailed
			m.lastErr = err
		}
		return err
	}
	return nil
}

// Probe attempts to establish the connection without issuing a query.
// Used by the startup hook; failures leave the Manager in StateFailed,
// which the next operation re-evaluates.
func (m *Manager) Probe(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, err := m.ensureConnectedLocked(ctx)
	return err
}

// ensureConnectedLocked returns the live client, dialing if necessary.
// A previous failure is not terminal: every call while not connected
// attempts a fresh dial, so the backend recovering is enough for the
// next operation to succeed.
func (m *Manager) ensureConnectedLocked(ctx context.Context) (Client, error) {
	if m.state == StateConnected && m.client != nil {
		return m.client, nil
	}

	client, err := m.connect(ctx)
	if err != nil {
		m.client = nil
		m.state = StateFailed
		m.lastErr = err
		connErr := &ConnectionError{Host: m.host, Port: m.port, Err: err}
		logging.Error("SUMO", err, "failed to connect to simulation at %s:%d", m.host, m.port)
		return nil, connErr
	}

	m.client = client
	m.state = StateConnected
	m.lastErr = nil
	m.connID = uuid.NewString()[:8]
	logging.Info("SUMO", "connected to simulation at %s:%d (conn %s)", m.host, m.port, m.connID)
	return client, nil
}

// Shutdown closes the backend connection if one is open. It waits for
// any in-flight operation by taking the connection lock, never panics,
// and never propagates close failures past logging. Calling it again
// after it ran, or without ever having connected, is a no-op.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client != nil {
		logging.Info("SUMO", "disconnecting from simulation (conn %s)", m.connID)
		if err := m.client.Close(); err != nil {
			logging.Error("SUMO", err, "error closing simulation connection")
		}
		m.client = nil
	}
	m.state = StateDisconnected
	m.lastErr = nil
}

// invalidatesConnection reports whether an operation failure means the
// session can no longer be trusted. A rejection by the simulation (for
// example an unknown vehicle id) keeps the session usable; everything
// else — protocol garbage, a dropped peer — forces a re-dial.
func invalidatesConnection(err error) bool {
	var cmdErr *traci.CommandError
	return !errors.As(err, &cmdErr)
}
