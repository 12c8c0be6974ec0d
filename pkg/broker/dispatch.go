package broker

import (
	"github.com/7ched7/trakd/pkg/registry"
	"github.com/7ched7/trakd/pkg/wire"
)

// dispatch routes one decoded request to its handler. Unknown commands
// are a silent no-op.
func (b *Broker) dispatch(t *wire.Transport, req wire.Request, peer string) {
	switch req.Command() {
	case wire.CmdAdd:
		b.handleAdd(t, req)
	case wire.CmdUpdate:
		b.handleUpdate(req)
	case wire.CmdRm:
		b.handleRm(t, req)
	case wire.CmdRename:
		b.handleRename(t, req)
	case wire.CmdPs:
		b.handlePs(t, req)
	case wire.CmdStatus:
		b.handleStatus(t)
	case wire.CmdStop:
		b.Shutdown()
	default:
		// unknown command: no-op
	}
}

func (b *Broker) handleAdd(t *wire.Transport, req wire.Request) {
	id, entry, ok := req.AddPayload()
	if !ok {
		_ = t.SendToken(wire.TokenError)
		return
	}

	err := b.registry.Add(id, registry.Entry{
		ProcessName: entry.ProcessName,
		PID:         entry.PID,
		TrackerPID:  entry.TrackPID,
		StartTime:   entry.StartTime,
		Status:      registry.StatusRunning,
		Session:     t,
	})
	if err != nil {
		_ = t.SendToken(err.Error())
		return
	}
	b.logger.Info("add: id=%s process=%s pid=%d", id, entry.ProcessName, entry.PID)
	_ = t.SendToken(wire.TokenOK)
}

func (b *Broker) handleUpdate(req wire.Request) {
	processName, pid, status, ok := req.UpdatePayload()
	if !ok {
		return
	}
	var s registry.Status
	if status == string(registry.StatusRunning) {
		s = registry.StatusRunning
	} else {
		s = registry.StatusStopped
	}
	b.registry.Update(processName, pid, s)
}

func (b *Broker) handleRm(t *wire.Transport, req wire.Request) {
	id, ok := req.RmPayload()
	if !ok {
		_ = t.SendToken(wire.TokenError)
		return
	}

	entry, removed := b.registry.Remove(id)
	if !removed {
		_ = t.SendToken(wire.TokenError)
		return
	}
	_ = t.SendToken(wire.TokenOK)

	// Removal precedes the stop signal.
	if entry.Session != nil {
		_ = entry.Session.SendToken(wire.TokenStop)
	}
	b.logger.Info("rm: id=%s", id)
}

func (b *Broker) handleRename(t *wire.Transport, req wire.Request) {
	id, newID, ok := req.RenamePayload()
	if !ok {
		_ = t.SendToken(wire.TokenError)
		return
	}
	if err := b.registry.Rename(id, newID); err != nil {
		_ = t.SendToken(err.Error())
		return
	}
	b.logger.Info("rename: %s -> %s", id, newID)
	_ = t.SendToken(wire.TokenOK)
}

func (b *Broker) handlePs(t *wire.Transport, req wire.Request) {
	all, detailed := req.PsPayload()

	snapshot := b.registry.Snapshot()
	out := make(map[string]wire.PsEntry, len(snapshot))
	for id, e := range snapshot {
		if !all && e.Status == registry.StatusStopped {
			continue
		}

		entry := wire.PsEntry{
			ProcessName: e.ProcessName,
			StartTime:   e.StartTime,
			Status:      string(e.Status),
		}
		if detailed {
			entry.PID = e.PID
			entry.Conn = connLabel(e.Session)
		}
		out[id] = entry
	}

	_ = t.SendJSON(out)
}

func connLabel(t *wire.Transport) string {
	if t == nil || t.Conn() == nil {
		return "Disconnected"
	}
	addr := t.Conn().RemoteAddr()
	if addr == nil {
		return "Disconnected"
	}
	return addr.String()
}

func (b *Broker) handleStatus(t *wire.Transport) {
	running, stopped := b.registry.Counts()
	_ = t.SendJSON(wire.StatusResponse{
		IP:               b.ip,
		Port:             b.port,
		TrackedProcesses: b.registry.Len(),
		Running:          running,
		Stopped:          stopped,
	})
}
