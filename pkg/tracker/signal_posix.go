//go:build !windows

package tracker

import (
	"os"
	"os/signal"
	"syscall"
)

// installSignalHandler arranges for SIGINT and SIGTERM to trigger an
// orderly stop, closing whatever interval is open before the
// process exits.
func installSignalHandler(tr *Tracker) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-ch:
			tr.cfg.Logger.Info("tracker %s: received %s, stopping", tr.id, sig)
			tr.requestStop()
		case <-tr.stopCh:
		}
		signal.Stop(ch)
	}()
}
