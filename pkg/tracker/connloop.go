package tracker

import (
	"time"

	"github.com/7ched7/trakd/pkg/wire"
)

// connLoop owns the tracker's side of the broker session: it
// polls for an incoming stop token at most once a second, and between
// polls drains anything the observation loop has queued, falling back
// to a keepalive ping if the session has been idle for a while.
func (tr *Tracker) connLoop() {
	defer tr.wg.Done()
	defer tr.requestStop()

	lastPing := time.Now()

	for {
		select {
		case <-tr.stopCh:
			return
		default:
		}

		data, err := tr.conn.Recv(pollInterval)
		if err != nil {
			if wire.IsTimeout(err) {
				tr.drainOutbox(&lastPing)
				continue
			}
			// Peer closed or a hard socket error: treat it the same as
			// a broker-initiated stop.
			tr.cfg.Logger.Debug("tracker %s: broker session ended: %v", tr.id, err)
			return
		}

		if string(data) == wire.TokenStop {
			tr.cfg.Logger.Info("tracker %s: received stop from broker", tr.id)
			return
		}
		// Anything else arriving unsolicited on this session is
		// ignored; the tracker never answers requests.
	}
}

func (tr *Tracker) drainOutbox(lastPing *time.Time) {
	select {
	case req := <-tr.outbox:
		if err := tr.conn.SendJSON(req); err != nil {
			tr.cfg.Logger.Debug("tracker %s: sending update failed: %v", tr.id, err)
		}
		*lastPing = time.Now()
	default:
		if time.Since(*lastPing) >= idlePingPeriod {
			if err := tr.conn.SendToken(wire.TokenPing); err != nil {
				tr.cfg.Logger.Debug("tracker %s: ping failed: %v", tr.id, err)
			}
			*lastPing = time.Now()
		}
	}
}
