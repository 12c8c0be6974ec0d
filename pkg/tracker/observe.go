package tracker

import (
	"os"
	"time"
)

// observeLoop polls the OS process table once per second and drives the
// five state transitions: a previously-absent target
// appearing, a present target's pid changing (process restarted under
// the same name), a previously-present target going absent, a
// checkpoint coming due while still present, and the steady-state
// no-op. It exits only once the session is asked to stop, and always
// closes whatever interval is open before returning.
func (tr *Tracker) observeLoop() {
	defer tr.wg.Done()

	for {
		select {
		case <-tr.stopCh:
			tr.finalize()
			return
		case <-time.After(pollInterval):
		}
		tr.pollOnce()
	}
}

func (tr *Tracker) pollOnce() {
	info, present, err := matchByName(tr.cfg.Enumerator, tr.processName, os.Getpid(), tr.cfg.DaemonName)
	if err != nil {
		tr.cfg.Logger.Warn("tracker %s: enumerating processes: %v", tr.id, err)
		return
	}

	now := time.Now()

	tr.mu.Lock()
	defer tr.mu.Unlock()

	switch {
	case present && tr.curPID == 0:
		// Previously absent, now present: open a fresh interval.
		tr.startTime = now
		tr.curPID = info.PID
		tr.openAndCheckpoint(now)
		pid := info.PID
		tr.queueUpdate(&pid, "running")

	case present && tr.curPID != 0 && info.PID != tr.curPID:
		// Same name, different pid: the target process was restarted
		// fast enough that it never appeared absent. The run interval
		// continues; only the cached pid and the broker's view change.
		tr.curPID = info.PID
		pid := info.PID
		tr.queueUpdate(&pid, "running")

	case !present && tr.curPID != 0:
		// Previously present, now absent: close the run.
		if err := tr.log.CloseSpanningMidnight(tr.processName, tr.startTime, now); err != nil {
			tr.cfg.Logger.Error("tracker %s: closing interval on absence: %v", tr.id, err)
		}
		tr.curPID = 0
		tr.startTime = time.Time{}
		tr.queueUpdate(nil, "stopped")

	case present && tr.curPID != 0 && now.Sub(tr.lastCheckpoint) >= checkpointPeriod:
		tr.checkpoint(now)

	default:
		// Steady state: present and unchanged, or absent and already
		// recorded as such. Nothing to do.
	}
}

// openAndCheckpoint appends a fresh open interval and immediately
// checkpoints its end, bounding crash loss to about a second.
func (tr *Tracker) openAndCheckpoint(now time.Time) {
	if err := tr.log.AppendOpen(now, tr.processName, now); err != nil {
		tr.cfg.Logger.Error("tracker %s: appending open interval: %v", tr.id, err)
		return
	}
	if err := tr.log.UpdateLastEnd(now, tr.processName, now); err != nil {
		tr.cfg.Logger.Error("tracker %s: initial checkpoint: %v", tr.id, err)
		return
	}
	tr.lastCheckpoint = now
}

// checkpoint refreshes the open run's recorded end time without
// closing it. If the run has crossed one or more midnights since it
// started, the crossed days are rewritten as whole synthetic intervals
// and tr.startTime is advanced to the start of the current day, so
// later checkpoints only need to extend today's entry.
func (tr *Tracker) checkpoint(now time.Time) {
	if err := tr.log.CloseSpanningMidnight(tr.processName, tr.startTime, now); err != nil {
		tr.cfg.Logger.Error("tracker %s: checkpoint: %v", tr.id, err)
		return
	}
	if !sameDay(tr.startTime, now) {
		tr.startTime = startOfDay(now)
	}
	tr.lastCheckpoint = now
}

// finalize closes whatever interval is open when the session is asked
// to stop, regardless of whether that request came from the broker, a
// lost connection, or a signal.
func (tr *Tracker) finalize() {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.curPID == 0 {
		return
	}
	now := time.Now()
	if err := tr.log.CloseSpanningMidnight(tr.processName, tr.startTime, now); err != nil {
		tr.cfg.Logger.Error("tracker %s: closing interval on shutdown: %v", tr.id, err)
	}
	tr.curPID = 0
	tr.startTime = time.Time{}
	tr.queueUpdate(nil, "stopped")
}
