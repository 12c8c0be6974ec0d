package tracker

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/7ched7/trakd/pkg/procscan"
)

// ErrTargetNotFound means no live process matched the requested target.
var ErrTargetNotFound = errors.New("tracker: target process not found")

// ErrSelfTracking means the only match found was the tracker's own
// process or the daemon binary itself.
var ErrSelfTracking = errors.New("tracker: refusing to track the daemon's own process")

// resolveTarget finds the live process named by target, which is either
// a literal pid or a process name matched case-insensitively. Matches
// against the tracker's own pid or the daemon binary (by exe basename or
// process name) are excluded rather than returned.
func resolveTarget(enumerator procscan.Enumerator, target string, selfPID int, daemonName string) (procscan.ProcessInfo, error) {
	procs, err := enumerator.List()
	if err != nil {
		return procscan.ProcessInfo{}, err
	}

	if pid, convErr := strconv.Atoi(target); convErr == nil {
		for _, p := range procs {
			if p.PID != pid {
				continue
			}
			if isSelfOrDaemon(p, selfPID, daemonName) {
				return procscan.ProcessInfo{}, ErrSelfTracking
			}
			return p, nil
		}
		return procscan.ProcessInfo{}, ErrTargetNotFound
	}

	lower := strings.ToLower(target)
	sawSelfMatch := false
	for _, p := range procs {
		if strings.ToLower(p.Name) != lower {
			continue
		}
		if isSelfOrDaemon(p, selfPID, daemonName) {
			sawSelfMatch = true
			continue
		}
		return p, nil
	}
	if sawSelfMatch {
		return procscan.ProcessInfo{}, ErrSelfTracking
	}
	return procscan.ProcessInfo{}, ErrTargetNotFound
}

// matchByName re-resolves processName after startup, used by the
// observation loop to detect presence/absence/pid-change across polls.
// It applies the same self/daemon exclusion as resolveTarget.
func matchByName(enumerator procscan.Enumerator, processName string, selfPID int, daemonName string) (procscan.ProcessInfo, bool, error) {
	procs, err := enumerator.List()
	if err != nil {
		return procscan.ProcessInfo{}, false, err
	}
	lower := strings.ToLower(processName)
	for _, p := range procs {
		if strings.ToLower(p.Name) != lower {
			continue
		}
		if isSelfOrDaemon(p, selfPID, daemonName) {
			continue
		}
		return p, true, nil
	}
	return procscan.ProcessInfo{}, false, nil
}

func isSelfOrDaemon(p procscan.ProcessInfo, selfPID int, daemonName string) bool {
	if p.PID == selfPID {
		return true
	}
	if daemonName == "" {
		return false
	}
	lowerDaemon := strings.ToLower(daemonName)
	if strings.ToLower(p.Name) == lowerDaemon {
		return true
	}
	if strings.ToLower(filepath.Base(p.Exe)) == lowerDaemon {
		return true
	}
	if strings.Contains(strings.ToLower(p.Cmdline), lowerDaemon) {
		return true
	}
	return false
}
