// Package broker implements the long-lived TCP service: it accepts
// client connections, dispatches per-connection sessions, owns
// the tracked-process registry, and propagates graceful shutdown to
// every tracker it still holds a session for.
//
// Shared state — the registry, the shutdown flag and their guarding
// primitives — is kept as fields of Broker rather than at package
// scope, so its lifetime is bounded by the Run call.
package broker

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/7ched7/trakd/pkg/logging"
	"github.com/7ched7/trakd/pkg/registry"
	"github.com/7ched7/trakd/pkg/wire"
	"github.com/7ched7/trakd/pkg/workerpool"
)

// acceptPollInterval bounds how often the accept loop checks the
// shutdown flag.
const acceptPollInterval = 1 * time.Second

// Broker is the broker service instance. Its lifetime spans one Run
// call; construct with New.
type Broker struct {
	ip     string
	port   int
	logger *logging.Logger

	registry *registry.Registry
	pool     *workerpool.WorkerPool

	listener net.Listener

	shuttingDown int32 // atomic bool, set by Shutdown
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// New constructs a Broker bound to ip:port with the given admission
// limit. Sessions are handled by a worker pool sized to the admission
// limit plus headroom for the short-lived CLI sessions (ps/status/rm/
// rename/stop) that come and go alongside the long-lived tracker
// sessions a full registry holds.
func New(ip string, port, limit int, logger *logging.Logger) *Broker {
	poolSize := limit + 16
	if poolSize < 16 {
		poolSize = 16
	}
	return &Broker{
		ip:       ip,
		port:     port,
		logger:   logger,
		registry: registry.New(limit),
		pool: workerpool.NewWorkerPool(&workerpool.Config{
			InitialSize: poolSize,
			QueueSize:   poolSize * 4,
		}),
	}
}

// Registry exposes the live registry, mainly for tests and for the
// report/ps code paths that need a snapshot without going through the
// wire.
func (b *Broker) Registry() *registry.Registry { return b.registry }

// Addr returns the bound address once Run has started listening.
func (b *Broker) Addr() net.Addr {
	if b.listener == nil {
		return nil
	}
	return b.listener.Addr()
}

// Run binds the listening socket and serves until Shutdown is called;
// accept errors other than the poll timeout are logged and the loop
// keeps accepting. It returns an error only if the bind fails, and
// otherwise blocks until the accept loop and every session have exited.
func (b *Broker) Run() error {
	addr := fmt.Sprintf("%s:%d", b.ip, b.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return classifyBindError(addr, err)
	}
	b.listener = ln
	b.logger.Info("broker listening on %s", addr)

	tcpLn, _ := ln.(*net.TCPListener)

	for {
		if atomic.LoadInt32(&b.shuttingDown) == 1 {
			break
		}

		if tcpLn != nil {
			_ = tcpLn.SetDeadline(time.Now().Add(acceptPollInterval))
		}
		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if atomic.LoadInt32(&b.shuttingDown) == 1 {
				break
			}
			b.logger.Warn("accept error: %v", err)
			continue
		}

		b.wg.Add(1)
		c := conn
		if err := b.pool.Submit(workerpool.TaskFunc(func(context.Context) error {
			defer b.wg.Done()
			b.handleConn(c)
			return nil
		})); err != nil {
			b.logger.Warn("session pool closed, dropping connection from %s", peerLabel(c))
			b.wg.Done()
			_ = c.Close()
		}
	}

	b.wg.Wait()
	_ = b.pool.Close()
	_ = ln.Close()
	return nil
}

// handleConn runs one connection's session loop: read a request, read
// a full logical message at a time, dispatch, repeat until the peer
// closes or the broker is shutting down.
func (b *Broker) handleConn(conn net.Conn) {
	t := wire.New(conn)
	defer t.Close()

	peer := peerLabel(conn)

	for {
		if atomic.LoadInt32(&b.shuttingDown) == 1 {
			return
		}

		data, err := t.Recv(acceptPollInterval)
		if err != nil {
			if wire.IsTimeout(err) {
				continue
			}
			return
		}

		req, err := wire.ParseRequest(data)
		if err != nil {
			// Malformed JSON from a client is silently dropped; the
			// session keeps reading.
			b.logger.Debug("dropping malformed message from %s: %v", peer, err)
			continue
		}

		b.dispatch(t, req, peer)
	}
}

func peerLabel(conn net.Conn) string {
	addr := conn.RemoteAddr()
	if addr == nil {
		return "Disconnected"
	}
	return addr.String()
}
