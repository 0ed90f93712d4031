package sumo

import "fmt"

// ConnectionError reports that the simulation backend could not be
// reached or that the session to it was lost while connecting.
type ConnectionError struct {
	Host string
	Port int
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connecting to simulation at %s:%d: %v", e.Host, e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// InvalidArgumentError reports malformed caller input. It is returned
// before any backend contact is attempted.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Reason)
}

// QueryError reports that the backend rejected or could not answer one
// specific query. The cause keeps the backend failure distinguishable:
// an unknown vehicle surfaces as a traci.CommandError, a dropped peer as
// a transport error, malformed wire data as a traci.ProtocolError.
type QueryError struct {
	Operation string
	VehicleID string
	Err       error
}

func (e *QueryError) Error() string {
	if e.VehicleID == "" {
		return fmt.Sprintf("%s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("%s for vehicle %q: %v", e.Operation, e.VehicleID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
