package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/7ched7/trakd/pkg/brokerclient"
	"github.com/7ched7/trakd/pkg/tracker"
	"github.com/7ched7/trakd/pkg/wire"
)

func cmdRm(args []string) int {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "show what is being done")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trakd rm <id>")
		return 2
	}
	id := fs.Arg(0)

	ep := currentEndpoint()
	token, err := brokerclient.New(ep.IP, ep.Port).Rm(id)
	if err != nil {
		log.Error("rm %s: %v", id, err)
		return 1
	}
	if token != wire.TokenOK {
		log.Error("rm %s: %s", id, token)
		return 1
	}
	if *verbose {
		fmt.Printf("removed %s\n", id)
	}
	return 0
}

func cmdRename(args []string) int {
	fs := flag.NewFlagSet("rename", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "show what is being done")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: trakd rename <id> <new_id>")
		return 2
	}
	id, newID := fs.Arg(0), fs.Arg(1)
	if err := tracker.ValidateID(newID); err != nil {
		log.Error("rename: %v", err)
		return 1
	}

	ep := currentEndpoint()
	token, err := brokerclient.New(ep.IP, ep.Port).Rename(id, newID)
	if err != nil {
		log.Error("rename %s %s: %v", id, newID, err)
		return 1
	}
	if token != wire.TokenOK {
		log.Error("rename %s %s: %s", id, newID, token)
		return 1
	}
	if *verbose {
		fmt.Printf("renamed %s to %s\n", id, newID)
	}
	return 0
}

func cmdPs(args []string) int {
	fs := flag.NewFlagSet("ps", flag.ContinueOnError)
	all := fs.Bool("a", false, "show both currently tracked and stopped processes")
	detailed := fs.Bool("d", false, "show detailed information")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	ep := currentEndpoint()
	entries, err := brokerclient.New(ep.IP, ep.Port).Ps(*all, *detailed)
	if err != nil {
		log.Error("ps: %v", err)
		return 1
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if *detailed {
		fmt.Printf("%-16s %-20s %-8s %-26s %-10s %s\n", "TRACK ID", "PROCESS", "PID", "STARTED", "STATUS", "CONNECTION")
	} else {
		fmt.Printf("%-16s %-20s %-26s %s\n", "TRACK ID", "PROCESS", "STARTED", "STATUS")
	}
	for _, id := range ids {
		e := entries[id]
		if *detailed {
			fmt.Printf("%-16s %-20s %-8d %-26s %-10s %s\n", id, e.ProcessName, e.PID, e.StartTime, e.Status, e.Conn)
		} else {
			fmt.Printf("%-16s %-20s %-26s %s\n", id, e.ProcessName, e.StartTime, e.Status)
		}
	}
	return 0
}

// cmdLs lists currently running OS processes, the candidates for
// "trakd add".
func cmdLs(args []string) int {
	procs, err := defaultEnumerator().List()
	if err != nil {
		log.Error("ls: %v", err)
		return 1
	}

	sort.Slice(procs, func(i, j int) bool { return procs[i].PID < procs[j].PID })

	fmt.Printf("%-8s %s\n", "PID", "PROCESS")
	for _, p := range procs {
		fmt.Printf("%-8d %s\n", p.PID, p.Name)
	}
	return 0
}
