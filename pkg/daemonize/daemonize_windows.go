//go:build windows

package daemonize

import (
	"os"
	"syscall"
)

// DETACHED_PROCESS is implied by CREATE_NO_WINDOW; the new process
// group keeps console ctrl events from reaching the child.
const (
	createNewProcessGroup = 0x00000200
	createNoWindow        = 0x08000000
	detachedProcess       = 0x00000008
)

// detach launches self as a hidden, detached child process, then exits
// the parent.
func detach(self string, args []string) error {
	cmd := newDetachedCmd(self, args)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: createNewProcessGroup | createNoWindow | detachedProcess,
		HideWindow:    true,
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	os.Exit(0)
	return nil
}
