package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/7ched7/trakd/pkg/profile"
	"github.com/7ched7/trakd/pkg/trakdhome"
)

// cmdConfig implements "trakd config {set|show}". "show" reports the
// effective ip/port/limit, falling back to built-in defaults when no
// profile is selected.
func cmdConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: trakd config {set|show}")
		return 2
	}
	switch args[0] {
	case "set":
		return configSet(args[1:])
	case "show":
		return configShow()
	default:
		fmt.Fprintf(os.Stderr, "trakd config: unknown subcommand %q\n", args[0])
		return 2
	}
}

func configSet(args []string) int {
	fs := flag.NewFlagSet("config set", flag.ContinueOnError)
	ip := fs.String("i", "", "set host ip address")
	port := fs.Int("p", 0, "set port number")
	limit := fs.Int("l", 0, "set the maximum number of concurrently tracked processes")
	verbose := fs.Bool("v", false, "show what is being done")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := profile.DefaultStore()
	if err != nil {
		log.Error("resolving profile store: %v", err)
		return 1
	}
	current, ok := store.GetCurrent()
	if !ok {
		log.Error("config set: no profile is selected; run \"trakd user add\" first")
		return 1
	}

	newIP := current.IP
	if *ip != "" {
		if net.ParseIP(*ip) == nil {
			log.Error("config set: %q is not a valid IP address", *ip)
			return 1
		}
		newIP = *ip
	}
	newPort := current.Port
	if *port != 0 {
		if *port < 1 || *port > 65535 {
			log.Error("config set: port %d is out of range [1,65535]", *port)
			return 1
		}
		newPort = *port
	}
	newLimit := current.Limit
	if *limit != 0 {
		newLimit = trakdhome.ClampLimit(*limit)
		if newLimit != *limit {
			log.Warn("config set: limit %d clamped to %d", *limit, newLimit)
		}
	}

	updated, err := store.Update(current.Username, newIP, newPort, newLimit)
	if err != nil {
		log.Error("config set: %v", err)
		return 1
	}
	if !updated {
		log.Error("config set: profile %s vanished mid-update", current.Username)
		return 1
	}
	if *verbose {
		fmt.Printf("ip=%s port=%d limit=%d\n", newIP, newPort, newLimit)
	}
	return 0
}

// configShow reports the effective ip/port/limit of the current
// profile, falling back to built-in defaults if none is selected.
func configShow() int {
	ep := currentEndpoint()
	fmt.Printf("ip=%s port=%d limit=%d\n", ep.IP, ep.Port, ep.Limit)
	return 0
}
