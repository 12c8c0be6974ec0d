package broker

import (
	"sync/atomic"

	"github.com/7ched7/trakd/pkg/wire"
)

// Shutdown implements the graceful-shutdown sequence:
// snapshot-and-clear the registry, best-effort push TokenStop to every
// tracker that was in it, set the shutdown flag, and close the
// listening socket last. It is safe to call more than once (e.g. once
// from a "stop" request and once from a signal handler) and from
// multiple goroutines concurrently — only the first call does work.
func (b *Broker) Shutdown() {
	b.shutdownOnce.Do(func() {
		entries := b.registry.DrainAll()

		for id, e := range entries {
			if e.Session == nil {
				continue
			}
			if err := e.Session.SendToken(wire.TokenStop); err != nil {
				b.logger.Debug("stop signal to tracker %s failed (ignored): %v", id, err)
			}
		}

		atomic.StoreInt32(&b.shuttingDown, 1)
		b.logger.Info("shutdown: stopped %d tracker(s)", len(entries))

		// The listening socket is closed last, after the accept loop
		// notices the flag and outstanding sessions finish — see
		// Run, which closes it once its own loop and wg.Wait() return.
	})
}
