package daemonize

import "testing"

func TestHasFlag(t *testing.T) {
	if !hasFlag([]string{"server", "run", ForegroundFlag}, ForegroundFlag) {
		t.Fatal("expected ForegroundFlag to be found")
	}
	if hasFlag([]string{"server", "run"}, ForegroundFlag) {
		t.Fatal("did not expect ForegroundFlag to be found")
	}
}

