// Package brokerclient is the CLI's synchronous counterpart to
// pkg/broker: it dials the broker's framed socket, sends one request,
// and waits for the matching response, the same one-write/one-recv
// discipline the broker itself uses on its side of the same
// connection.
package brokerclient

import (
	"fmt"
	"net"
	"time"

	"github.com/7ched7/trakd/pkg/wire"
)

// probeTimeout bounds the "is the broker listening" check used before
// commands that must not run while it is up.
const probeTimeout = 500 * time.Millisecond

// dialTimeout bounds an ordinary request/response round trip.
const dialTimeout = 3 * time.Second

// Client addresses one broker endpoint.
type Client struct {
	ip   string
	port int
}

// New returns a Client for ip:port.
func New(ip string, port int) *Client {
	return &Client{ip: ip, port: port}
}

func (c *Client) addr() string {
	return fmt.Sprintf("%s:%d", c.ip, c.port)
}

func (c *Client) dial(timeout time.Duration) (*wire.Transport, error) {
	conn, err := net.DialTimeout("tcp", c.addr(), timeout)
	if err != nil {
		return nil, err
	}
	return wire.New(conn), nil
}

// IsRunning reports whether a broker is listening on this endpoint. It
// is the probe run before commands (like reset) that must not run
// while the broker is up.
func (c *Client) IsRunning() bool {
	conn, err := net.DialTimeout("tcp", c.addr(), probeTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func (c *Client) roundTrip(req wire.Request) ([]byte, error) {
	t, err := c.dial(dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("brokerclient: connecting to %s: %w", c.addr(), err)
	}
	defer t.Close()
	return t.SendAndExpect(req)
}

// Status requests the broker's current status summary.
func (c *Client) Status() (wire.StatusResponse, error) {
	data, err := c.roundTrip(wire.NewStatusRequest())
	if err != nil {
		return wire.StatusResponse{}, err
	}
	var resp wire.StatusResponse
	if err := wire.Unmarshal(data, &resp); err != nil {
		return wire.StatusResponse{}, fmt.Errorf("brokerclient: decoding status: %w", err)
	}
	return resp, nil
}

// Ps requests the current registry projection.
func (c *Client) Ps(all, detailed bool) (map[string]wire.PsEntry, error) {
	data, err := c.roundTrip(wire.NewPsRequest(all, detailed))
	if err != nil {
		return nil, err
	}
	var entries map[string]wire.PsEntry
	if err := wire.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("brokerclient: decoding ps response: %w", err)
	}
	return entries, nil
}

// Rm asks the broker to remove id and stop its tracker. It returns the
// raw ASCII token the broker replied with (ok/error).
func (c *Client) Rm(id string) (string, error) {
	data, err := c.roundTrip(wire.NewRmRequest(id))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Rename asks the broker to rekey id to newID.
func (c *Client) Rename(id, newID string) (string, error) {
	data, err := c.roundTrip(wire.NewRenameRequest(id, newID))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Stop asks the broker to shut down. The broker sends no response to a
// JSON "stop" request, so this only writes the request and
// closes the connection immediately rather than waiting on a Recv that
// would never complete.
func (c *Client) Stop() error {
	t, err := c.dial(dialTimeout)
	if err != nil {
		return fmt.Errorf("brokerclient: connecting to %s: %w", c.addr(), err)
	}
	defer t.Close()
	return t.SendJSON(wire.NewStopRequest())
}
