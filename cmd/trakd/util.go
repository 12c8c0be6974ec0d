package main

import (
	"path/filepath"
	"strings"
)

// execBasename strips the directory and any .exe suffix from path, for
// comparing against process names reported by the OS (the self-tracking
// exclusion).
func execBasename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, ".exe")
}
