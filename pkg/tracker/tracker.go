// Package tracker implements the watcher lifecycle: a tracker is a
// short-lived session paired one-to-one with a tracked
// process. It registers itself with the broker, then runs two
// concurrent loops for as long as the broker keeps the session open —
// one observing the target process, one observing the broker
// connection — and guarantees that no run interval is lost across
// signals, crashes or midnight.
package tracker

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/7ched7/trakd/pkg/intervallog"
	"github.com/7ched7/trakd/pkg/logging"
	"github.com/7ched7/trakd/pkg/procscan"
	"github.com/7ched7/trakd/pkg/trakdhome"
	"github.com/7ched7/trakd/pkg/wire"
)

// pollInterval bounds both the connection loop's and the observation
// loop's polling cadence.
const pollInterval = 1 * time.Second

// idlePingPeriod is how long the connection loop waits with nothing
// queued before sending a keepalive ping.
const idlePingPeriod = 10 * time.Second

// checkpointPeriod is how often a still-running target gets its open
// interval's end field refreshed on disk, bounding crash loss to one
// checkpoint period.
const checkpointPeriod = trakdhome.CheckpointPeriod

// Config configures a single tracker run.
type Config struct {
	// Target is the process to track: a literal pid, or a process name
	// matched case-insensitively.
	Target string
	// ExplicitID is the tracking id to register under; if empty, a
	// fresh 12-hex-char id is minted.
	ExplicitID string
	// Username selects the interval log this tracker appends to.
	Username string
	// BrokerIP and BrokerPort address the broker to register with.
	BrokerIP   string
	BrokerPort int
	// DaemonName is the daemon binary's own name, excluded from target
	// resolution so the tracker never tracks the service that spawned
	// it.
	DaemonName string

	Logger     *logging.Logger
	Enumerator procscan.Enumerator
}

// Tracker is one running watcher session.
type Tracker struct {
	cfg         Config
	id          string
	processName string

	conn *wire.Transport
	log  *intervallog.Store

	mu             sync.Mutex
	curPID         int
	startTime      time.Time
	lastCheckpoint time.Time

	outbox chan wire.Request

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// queueUpdate enqueues a best-effort "update" push for the connection
// loop to send; it never blocks the observation loop.
func (tr *Tracker) queueUpdate(pid *int, status string) {
	req := wire.NewUpdateRequest(tr.processName, pid, status)
	select {
	case tr.outbox <- req:
	default:
		tr.cfg.Logger.Debug("tracker %s: outbox full, dropping update", tr.id)
	}
}

// Run resolves the target, registers with the broker, and blocks until
// the session ends (broker-initiated stop, lost connection, or an OS
// signal delivered to this process). Once registered, it returns nil
// after both loops have exited; the observation loop closes any open
// interval before exiting, and a failure to write that close is logged,
// not returned.
func Run(cfg Config) error {
	if cfg.Enumerator == nil {
		return fmt.Errorf("tracker: no process enumerator configured")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New(os.Stderr, "tracker", logging.InfoLevel)
	}

	info, err := resolveTarget(cfg.Enumerator, cfg.Target, os.Getpid(), cfg.DaemonName)
	if err != nil {
		return err
	}

	id := cfg.ExplicitID
	if id == "" {
		id, err = NewID()
		if err != nil {
			return fmt.Errorf("tracker: minting id: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.BrokerIP, cfg.BrokerPort)
	nc, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("tracker: connecting to broker at %s: %w", addr, err)
	}

	t := wire.New(nc)
	now := time.Now()

	req := wire.NewAddRequest(id, wire.AddEntry{
		ProcessName: info.Name,
		PID:         info.PID,
		TrackPID:    os.Getpid(),
		StartTime:   now.Format(time.RFC3339Nano),
		Status:      "running",
	})
	resp, err := t.SendAndExpect(req)
	if err != nil {
		_ = t.Close()
		return fmt.Errorf("tracker: registering with broker: %w", err)
	}
	if string(resp) != wire.TokenOK {
		_ = t.Close()
		return fmt.Errorf("tracker: broker rejected registration: %s", string(resp))
	}

	tr := &Tracker{
		cfg:         cfg,
		id:          id,
		processName: info.Name,
		conn:        t,
		log:         intervallog.NewStore(cfg.Username),
		curPID:      info.PID,
		startTime:   now,
		outbox:      make(chan wire.Request, 4),
		stopCh:      make(chan struct{}),
	}

	// First recorded interval: append it open, then immediately
	// checkpoint its end so a crash in the next second loses at most
	// that much history.
	if err := tr.log.AppendOpen(now, tr.processName, now); err != nil {
		cfg.Logger.Error("tracker: appending open interval: %v", err)
	}
	if err := tr.log.UpdateLastEnd(now, tr.processName, now); err != nil {
		cfg.Logger.Error("tracker: initial checkpoint: %v", err)
	}
	tr.lastCheckpoint = now

	cfg.Logger.Info("tracking %s (pid %d) as %s", tr.processName, info.PID, id)

	installSignalHandler(tr)

	tr.wg.Add(2)
	go tr.connLoop()
	go tr.observeLoop()
	tr.wg.Wait()

	_ = t.Close()
	return nil
}

// requestStop idempotently signals both loops to wind down.
func (tr *Tracker) requestStop() {
	tr.stopOnce.Do(func() { close(tr.stopCh) })
}

// Stop requests an orderly shutdown of the tracker session, e.g. from a
// signal handler.
func (tr *Tracker) Stop() { tr.requestStop() }

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
