// Package wire implements the framed socket transport: one
// write per logical message, one bounded recv per logical response, no
// length-delimited framing — a message is whatever a single read
// returns.
package wire

import (
	"errors"
	"net"
	"time"
)

// ErrPeerClosed is returned when the remote end closed the connection
// (EOF on read, or a write failed with a broken-pipe/reset error).
var ErrPeerClosed = errors.New("wire: peer closed connection")

// Transport wraps one stream connection and performs the one-write /
// one-recv discipline. It is safe for one concurrent
// reader and one concurrent writer (the broker's accept worker reads
// while the broker's shutdown path writes TokenStop on the same
// session), but not for concurrent writers among themselves.
type Transport struct {
	conn net.Conn
}

// New wraps conn in a Transport.
func New(conn net.Conn) *Transport {
	return &Transport{conn: conn}
}

// Conn returns the underlying connection, e.g. for RemoteAddr().
func (t *Transport) Conn() net.Conn { return t.conn }

// Close closes the underlying connection.
func (t *Transport) Close() error { return t.conn.Close() }

// SendJSON marshals v and performs one atomic write. Fire-and-forget
// callers (the tracker's update pushes) use this and
// never call Recv for a response.
func (t *Transport) SendJSON(v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	if len(data) > MaxMessageBytes {
		return ErrMessageTooLarge
	}
	return t.write(data)
}

// SendToken writes a short ASCII token (ok, error, limit, stop, ping,
// ...) with no JSON framing.
func (t *Transport) SendToken(token string) error {
	return t.write([]byte(token))
}

func (t *Transport) write(data []byte) error {
	_, err := t.conn.Write(data)
	if err != nil {
		return ErrPeerClosed
	}
	return nil
}

// Recv performs one read of up to MaxMessageBytes and returns whatever
// bytes arrived as a single logical message. deadline of zero means
// block indefinitely; a non-zero deadline implements the 1-second
// readiness poll used by the broker's per-connection session loop and
// the tracker's connection loop.
func (t *Transport) Recv(deadline time.Duration) ([]byte, error) {
	if deadline > 0 {
		if err := t.conn.SetReadDeadline(time.Now().Add(deadline)); err != nil {
			return nil, err
		}
	} else {
		_ = t.conn.SetReadDeadline(time.Time{})
	}

	buf := make([]byte, MaxMessageBytes)
	n, err := t.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return nil, errTimeout
		}
		return nil, ErrPeerClosed
	}
	if n == 0 {
		return nil, ErrPeerClosed
	}
	return buf[:n], nil
}

// IsTimeout reports whether err is the poll-timeout sentinel returned by
// Recv, distinct from a genuine peer closure.
func IsTimeout(err error) bool { return err == errTimeout }

var errTimeout = errors.New("wire: recv poll timeout")

// SendAndExpect writes v and blocks for exactly one response read, with
// no deadline. Used by one-shot CLI requests against the broker.
func (t *Transport) SendAndExpect(v interface{}) ([]byte, error) {
	if err := t.SendJSON(v); err != nil {
		return nil, err
	}
	return t.Recv(0)
}

// RecvRequest reads one message and parses it as a JSON Request.
func (t *Transport) RecvRequest(deadline time.Duration) (Request, error) {
	data, err := t.Recv(deadline)
	if err != nil {
		return nil, err
	}
	return ParseRequest(data)
}
