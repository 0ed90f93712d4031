// Package traci implements the small slice of the TraCI protocol needed to
// issue read-only vehicle queries against a running SUMO process. TraCI is
// a synchronous binary request/response protocol over a single TCP session;
// the session carries no multiplexing, so a Client must never be used from
// more than one goroutine at a time. Serialization is the caller's job.
package traci

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
)

// Position is a 2D simulation-plane coordinate in meters.
type Position struct {
	X float64
	Y float64
}

// Client holds one TraCI session. All methods block until the backend
// answers or the connection fails.
type Client struct {
	conn          net.Conn
	apiVersion    int
	serverVersion string
}

// Connect dials the SUMO remote-control port and performs the version
// handshake. The context bounds dialing only; established sessions carry
// no deadline.
func Connect(ctx context.Context, host string, port int) (*Client, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := &Client{conn: conn}
	if err := c.handshake(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("traci handshake with %s: %w", addr, err)
	}
	return c, nil
}

// APIVersion reports the TraCI API version announced by the backend.
func (c *Client) APIVersion() int {
	return c.apiVersion
}

// ServerVersion reports the backend's version string, e.g. "SUMO 1.19.0".
func (c *Client) ServerVersion() string {
	return c.serverVersion
}

func (c *Client) handshake() error {
	content, err := c.request(cmdGetVersion, nil)
	if err != nil {
		return err
	}
	r := newReader(content)
	api := r.int32v()
	version := r.stringv()
	if err := r.Err(); err != nil {
		return err
	}
	c.apiVersion = int(api)
	c.serverVersion = version
	return nil
}

// ListVehicles returns the identifiers of all vehicles currently in the
// simulation.
func (c *Client) ListVehicles() ([]string, error) {
	r, err := c.vehicleQuery(varIDList, "", typeStringList)
	if err != nil {
		return nil, err
	}
	ids := r.stringList()
	return ids, r.Err()
}

// Speed returns the vehicle's current speed in m/s.
func (c *Client) Speed(vehicleID string) (float64, error) {
	return c.doubleQuery(varSpeed, vehicleID)
}

// Position returns the vehicle's current 2D position.
func (c *Client) Position(vehicleID string) (Position, error) {
	r, err := c.vehicleQuery(varPosition, vehicleID, typePosition2D)
	if err != nil {
		return Position{}, err
	}
	p := Position{X: r.float64v(), Y: r.float64v()}
	return p, r.Err()
}

// Acceleration returns the vehicle's current acceleration in m/s².
func (c *Client) Acceleration(vehicleID string) (float64, error) {
	return c.doubleQuery(varAcceleration, vehicleID)
}

// LaneID returns the identifier of the lane the vehicle is on.
func (c *Client) LaneID(vehicleID string) (string, error) {
	return c.stringQuery(varLaneID, vehicleID)
}

// RouteEdges returns the ordered edge identifiers of the vehicle's route.
func (c *Client) RouteEdges(vehicleID string) ([]string, error) {
	r, err := c.vehicleQuery(varRouteEdges, vehicleID, typeStringList)
	if err != nil {
		return nil, err
	}
	edges := r.stringList()
	return edges, r.Err()
}

// RouteID returns the identifier of the route the vehicle follows.
func (c *Client) RouteID(vehicleID string) (string, error) {
	return c.stringQuery(varRouteID, vehicleID)
}

// Close announces the end of the session to the backend and closes the
// TCP connection. The goodbye is best effort: a peer that already went
// away must not keep Close from releasing the socket.
func (c *Client) Close() error {
	_, _ = c.request(cmdClose, nil)
	return c.conn.Close()
}

func (c *Client) doubleQuery(variable byte, vehicleID string) (float64, error) {
	r, err := c.vehicleQuery(variable, vehicleID, typeDouble)
	if err != nil {
		return 0, err
	}
	v := r.float64v()
	return v, r.Err()
}

func (c *Client) stringQuery(variable byte, vehicleID string) (string, error) {
	r, err := c.vehicleQuery(variable, vehicleID, typeString)
	if err != nil {
		return "", err
	}
	s := r.stringv()
	return s, r.Err()
}

// vehicleQuery issues CMD_GET_VEHICLE_VARIABLE and positions a reader at
// the response value after checking the echoed variable and value type.
func (c *Client) vehicleQuery(variable byte, vehicleID string, wantType byte) (*reader, error) {
	var w writer
	w.ubyte(variable)
	w.stringv(vehicleID)

	content, err := c.request(cmdGetVehicleVariable, w.bytes())
	if err != nil {
		return nil, err
	}

	r := newReader(content)
	gotVar := r.ubyte()
	r.stringv() // object id echo
	gotType := r.ubyte()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if gotVar != variable {
		return nil, &ProtocolError{Reason: fmt.Sprintf("response for variable 0x%02x, expected 0x%02x", gotVar, variable)}
	}
	if gotType != wantType {
		return nil, &ProtocolError{Reason: fmt.Sprintf("value type 0x%02x, expected 0x%02x", gotType, wantType)}
	}
	return r, nil
}

// request sends one command and returns the content of its result
// command. For commands without a result (close), it returns nil.
func (c *Client) request(cmd byte, content []byte) ([]byte, error) {
	msg := encodeMessage(encodeCommand(cmd, content))
	if _, err := c.conn.Write(msg); err != nil {
		return nil, fmt.Errorf("send command 0x%02x: %w", cmd, err)
	}

	header := make([]byte, 4)
	if _, err := io.ReadFull(c.conn, header); err != nil {
		return nil, fmt.Errorf("read response header: %w", err)
	}
	total := int(int32(uint32(header[0])<<24 | uint32(header[1])<<16 | uint32(header[2])<<8 | uint32(header[3])))
	if total < 4 {
		return nil, &ProtocolError{Reason: fmt.Sprintf("message length %d below envelope size", total)}
	}
	body := make([]byte, total-4)
	if _, err := io.ReadFull(c.conn, body); err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	r := newReader(body)
	statusID, statusContent := r.command()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if statusID != cmd {
		return nil, &ProtocolError{Reason: fmt.Sprintf("status for command 0x%02x, expected 0x%02x", statusID, cmd)}
	}
	sr := newReader(statusContent)
	result := sr.ubyte()
	description := sr.stringv()
	if err := sr.Err(); err != nil {
		return nil, err
	}
	if result != statusOK {
		return nil, &CommandError{Command: cmd, Description: description}
	}

	if r.remaining() == 0 {
		return nil, nil
	}
	resultID, resultContent := r.command()
	if err := r.Err(); err != nil {
		return nil, err
	}
	if want := expectedResponse(cmd); resultID != want {
		return nil, &ProtocolError{Reason: fmt.Sprintf("result command 0x%02x, expected 0x%02x", resultID, want)}
	}
	return resultContent, nil
}

func expectedResponse(cmd byte) byte {
	switch cmd {
	case cmdGetVehicleVariable:
		return responseGetVehicleVariable
	default:
		// getVersion answers under its own identifier.
		return cmd
	}
}
