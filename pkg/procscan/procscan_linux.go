//go:build linux

package procscan

import (
	"os"
	"strconv"
	"strings"
)

// LinuxEnumerator reads /proc directly, one pid directory at a time.
type LinuxEnumerator struct{}

// NewLinuxEnumerator returns the default Enumerator for Linux.
func NewLinuxEnumerator() *LinuxEnumerator { return &LinuxEnumerator{} }

// List walks /proc/<pid> for every numeric entry and reads comm, exe
// and cmdline. A process whose comm cannot be read (e.g. it exited
// mid-scan) is skipped rather than failing the whole scan; an
// unreadable exe or cmdline (e.g. permission-denied on another user's
// process) leaves that field empty.
func (LinuxEnumerator) List() ([]ProcessInfo, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	out := make([]ProcessInfo, 0, len(entries))
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}

		comm, err := os.ReadFile("/proc/" + entry.Name() + "/comm")
		if err != nil {
			continue
		}
		exe, _ := os.Readlink("/proc/" + entry.Name() + "/exe")
		cmdlineRaw, _ := os.ReadFile("/proc/" + entry.Name() + "/cmdline")
		cmdline := strings.ReplaceAll(strings.TrimRight(string(cmdlineRaw), "\x00"), "\x00", " ")

		out = append(out, ProcessInfo{
			PID:     pid,
			Name:    strings.TrimSpace(string(comm)),
			Exe:     exe,
			Cmdline: cmdline,
		})
	}
	return out, nil
}
