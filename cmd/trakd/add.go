package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/7ched7/trakd/pkg/daemonize"
	"github.com/7ched7/trakd/pkg/logging"
	"github.com/7ched7/trakd/pkg/procscan"
	"github.com/7ched7/trakd/pkg/tracker"
)

// cmdAdd implements "trakd add <process> [-n id] [--fg]": absent
// --fg, the tracker is launched as a detached background process;
// --fg keeps it attached to the invoking terminal.
func cmdAdd(args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("n", "", "custom tracking id")
	fg := fs.Bool("fg", false, "run in foreground")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trakd add <process> [-n id] [--fg]")
		return 2
	}
	target := fs.Arg(0)
	if *name != "" {
		if err := tracker.ValidateID(*name); err != nil {
			log.Error("add: %v", err)
			return 1
		}
	}

	if !*fg {
		// Flags must precede the positional target for the child's
		// flag parse.
		relaunchArgs := []string{"add", daemonize.ForegroundFlag}
		if *name != "" {
			relaunchArgs = append(relaunchArgs, "-n", *name)
		}
		relaunchArgs = append(relaunchArgs, target)
		if err := daemonize.Daemonize(relaunchArgs); err != nil {
			log.Error("launching tracker: %v", err)
			return 1
		}
		return 0
	}

	ep := currentEndpoint()
	exe, err := os.Executable()
	daemonName := ""
	if err == nil {
		daemonName = execBasename(exe)
	}

	trackerLogger := logging.New(os.Stderr, "tracker", logging.InfoLevel)
	runErr := tracker.Run(tracker.Config{
		Target:     target,
		ExplicitID: *name,
		Username:   currentUsername(),
		BrokerIP:   ep.IP,
		BrokerPort: ep.Port,
		DaemonName: daemonName,
		Logger:     trackerLogger,
		Enumerator: defaultEnumerator(),
	})
	if runErr != nil {
		log.Error("tracking %s: %v", target, runErr)
		return 1
	}
	return 0
}

func defaultEnumerator() procscan.Enumerator {
	return procscan.NewLinuxEnumerator()
}
