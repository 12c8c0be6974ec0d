package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/7ched7/trakd/pkg/brokerclient"
	"github.com/7ched7/trakd/pkg/trakdhome"
)

// cmdReset implements "trakd reset {all|config|logs} [-y]". It
// refuses to run while the broker is up, since both the
// profile file and the log tree are live state a running broker and
// its trackers depend on.
func cmdReset(args []string) int {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("y", false, "skip confirmation")
	verbose := fs.Bool("v", false, "show what is being done")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trakd reset {all|config|logs} [-y]")
		return 2
	}
	target := fs.Arg(0)
	if target != "all" && target != "config" && target != "logs" {
		fmt.Fprintln(os.Stderr, "usage: trakd reset {all|config|logs} [-y]")
		return 2
	}

	ep := currentEndpoint()
	if brokerclient.New(ep.IP, ep.Port).IsRunning() {
		log.Error("reset: broker is running on %s:%d; stop it first", ep.IP, ep.Port)
		return 1
	}

	if !*yes && !confirm(target) {
		fmt.Println("aborted")
		return 0
	}

	if target == "logs" || target == "all" {
		logsRoot, err := trakdhome.LogsRoot()
		if err != nil {
			log.Error("reset: %v", err)
			return 1
		}
		if err := os.RemoveAll(logsRoot); err != nil {
			log.Error("reset: removing logs: %v", err)
			return 1
		}
		if *verbose {
			fmt.Println("removed log tree")
		}
	}

	if target == "config" || target == "all" {
		profilePath, err := trakdhome.ProfilePath()
		if err != nil {
			log.Error("reset: %v", err)
			return 1
		}
		if err := os.Remove(profilePath); err != nil && !os.IsNotExist(err) {
			log.Error("reset: removing profile: %v", err)
			return 1
		}
		if *verbose {
			fmt.Println("removed profile store")
		}
	}

	return 0
}

func confirm(target string) bool {
	fmt.Printf("this will permanently remove %s. continue? [y/N] ", target)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return line == "y\n" || line == "Y\n" || line == "yes\n"
}
