package tracker

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/7ched7/trakd/pkg/logging"
	"github.com/7ched7/trakd/pkg/procscan"
	"github.com/7ched7/trakd/pkg/wire"
)

// presentEnumerator reports a single fixed process as running for as
// long as present is true, then as gone.
type presentEnumerator struct {
	pid     int
	name    string
	present func() bool
}

func (p presentEnumerator) List() ([]procscan.ProcessInfo, error) {
	if !p.present() {
		return nil, nil
	}
	return []procscan.ProcessInfo{{PID: p.pid, Name: p.name, Exe: "/usr/bin/" + p.name}}, nil
}

// fakeBroker accepts exactly one connection, acks the first request with
// "ok", then sends TokenStop once told to.
type fakeBroker struct {
	ln    net.Listener
	conn  net.Conn
	stopC chan struct{}
}

func newFakeBroker(t *testing.T) *fakeBroker {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	fb := &fakeBroker{ln: ln, stopC: make(chan struct{})}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		fb.conn = conn
		reader := bufio.NewReader(conn)

		// First message: the "add" registration. Reply ok.
		buf := make([]byte, wire.MaxMessageBytes)
		n, err := reader.Read(buf)
		if err != nil {
			return
		}
		_ = n
		_, _ = conn.Write([]byte(wire.TokenOK))

		<-fb.stopC
		_, _ = conn.Write([]byte(wire.TokenStop))
	}()

	return fb
}

func (fb *fakeBroker) addr() string { return fb.ln.Addr().String() }

func (fb *fakeBroker) triggerStop() {
	close(fb.stopC)
}

func (fb *fakeBroker) close() {
	if fb.conn != nil {
		_ = fb.conn.Close()
	}
	_ = fb.ln.Close()
}

func TestTrackerLifecycleOpensAndClosesInterval(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	fb := newFakeBroker(t)
	defer fb.close()

	host, portStr, err := net.SplitHostPort(fb.addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	present := true
	enum := presentEnumerator{pid: 4242, name: "demo-worker", present: func() bool { return present }}

	done := make(chan error, 1)
	go func() {
		done <- Run(Config{
			Target:     "demo-worker",
			Username:   "alice",
			BrokerIP:   host,
			BrokerPort: port,
			DaemonName: "trakd",
			Logger:     logging.New(os.Stderr, "test", logging.ErrorLevel),
			Enumerator: enum,
		})
	}()

	// Let the tracker observe the process and checkpoint at least once.
	time.Sleep(1200 * time.Millisecond)

	fb.triggerStop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tracker did not stop in time")
	}

	logPath := filepath.Join(home, ".trakd", "logs", "alice", time.Now().Format("20060102"))
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "demo-worker|"))
	require.False(t, strings.Contains(string(data), "|None"), "interval should be closed after a graceful stop")
}
