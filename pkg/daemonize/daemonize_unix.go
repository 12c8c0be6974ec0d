//go:build !windows

package daemonize

import (
	"os"
	"syscall"
)

// detach starts self as a new session leader, detached from the
// controlling terminal, then exits the parent.
func detach(self string, args []string) error {
	cmd := newDetachedCmd(self, args)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return err
	}
	os.Exit(0)
	return nil
}
