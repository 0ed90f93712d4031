package traci

import "fmt"

// CommandError is a failure reported by the simulation itself: the
// connection is still good, but the backend rejected the command, for
// example because the queried vehicle is not known to the simulation.
type CommandError struct {
	Command     byte
	Description string
}

func (e *CommandError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("command 0x%02x rejected by simulation", e.Command)
	}
	return fmt.Sprintf("command 0x%02x rejected by simulation: %s", e.Command, e.Description)
}

// ProtocolError is raised when the byte stream from the backend does not
// parse as a valid TraCI response. The connection can no longer be
// trusted after one of these.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string {
	return "traci protocol error: " + e.Reason
}
