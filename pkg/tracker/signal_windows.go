//go:build windows

package tracker

import (
	"os"
	"os/signal"
)

// installSignalHandler on Windows only gets a reliable os.Interrupt
// (Ctrl+C); SIGTERM has no POSIX-style delivery here, so a tracker
// launched in foreground mode relies on its own poll loops noticing the
// parent is gone rather than a signal.
func installSignalHandler(tr *Tracker) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		select {
		case <-ch:
			tr.cfg.Logger.Info("tracker %s: received interrupt, stopping", tr.id)
			tr.requestStop()
		case <-tr.stopCh:
		}
		signal.Stop(ch)
	}()
}
