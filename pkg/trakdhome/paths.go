// Package trakdhome resolves the on-disk roots and package-level
// defaults consumed across the broker, tracker, and CLI.
package trakdhome

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Default wire-protocol endpoint. 8000 is accepted on read for
// backward compatibility with an older revision; 10101 is what new
// profiles are created with.
const (
	DefaultPort     = 10101
	LegacyPort      = 8000
	DefaultIP       = "127.0.0.1"
	DefaultLimit    = 5
	MinLimit        = 1
	MaxLimit        = 24
	ProfileFileName = "profile"
	LockFileName    = "lck.lock"
	LogsDirName     = "logs"
)

// CheckpointPeriod is how often a tracker refreshes an open interval's
// end field on disk, bounding crash loss to one period.
const CheckpointPeriod = 5 * time.Minute

// Root returns the trakd_home directory: %ProgramData%/Trakd on
// Windows, ~/.trakd on POSIX.
func Root() (string, error) {
	if runtime.GOOS == "windows" {
		programData := os.Getenv("ProgramData")
		if programData == "" {
			programData = `C:\ProgramData`
		}
		return filepath.Join(programData, "Trakd"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".trakd"), nil
}

// ProfilePath returns the path to the profile store file.
func ProfilePath() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ProfileFileName), nil
}

// LogsRoot returns the root directory under which every user's per-day
// log directory lives.
func LogsRoot() (string, error) {
	root, err := Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, LogsDirName), nil
}

// UserLogDir returns the per-day log directory for username.
func UserLogDir(username string) (string, error) {
	logsRoot, err := LogsRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(logsRoot, username), nil
}

// ClampLimit clamps limit into [MinLimit, MaxLimit].
func ClampLimit(limit int) int {
	if limit < MinLimit {
		return MinLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
