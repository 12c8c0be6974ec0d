package broker

import (
	"fmt"
	"strings"
)

// classifyBindError maps bind failures to operator-facing text. Go's net
// package does not expose a single portable errno type across POSIX and
// Windows without per-platform syscall code, so classification here
// matches on the OS-provided error text, which is stable for these
// three conditions on every platform Go supports.
func classifyBindError(addr string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "address already in use"), strings.Contains(msg, "Only one usage of each socket address"):
		return fmt.Errorf("trakd: broker already running on %s", addr)
	case strings.Contains(msg, "permission denied"), strings.Contains(msg, "cannot assign requested address"):
		return fmt.Errorf("trakd: cannot bind %s: check permissions and address configuration: %w", addr, err)
	default:
		return fmt.Errorf("trakd: failed to bind %s: %w", addr, err)
	}
}
