// Command trakd routes each subcommand to a synchronous broker
// request, a daemonized tracker launch, or a local file/process
// operation. Each subcommand parses its own flags.
package main

import (
	"fmt"
	"os"

	"github.com/7ched7/trakd/pkg/logging"
	"github.com/7ched7/trakd/pkg/profile"
	"github.com/7ched7/trakd/pkg/trakdhome"
)

var log = logging.New(os.Stderr, "trakd", logging.InfoLevel)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	switch args[0] {
	case "server":
		return cmdServer(args[1:])
	case "add":
		return cmdAdd(args[1:])
	case "rm":
		return cmdRm(args[1:])
	case "rename":
		return cmdRename(args[1:])
	case "ps":
		return cmdPs(args[1:])
	case "ls":
		return cmdLs(args[1:])
	case "report":
		return cmdReport(args[1:])
	case "user":
		return cmdUser(args[1:])
	case "config":
		return cmdConfig(args[1:])
	case "reset":
		return cmdReset(args[1:])
	case "-h", "--help", "help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "trakd: unknown command %q\n", args[0])
		usage()
		return 2
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: trakd <server|add|rm|rename|ps|ls|report|user|config|reset> ...")
}

// endpoint is the (ip, port, limit) triple commands that talk to a
// broker need, resolved from the current profile with a fallback to
// the built-in defaults when no profile is selected.
type endpoint struct {
	IP    string
	Port  int
	Limit int
}

func currentEndpoint() endpoint {
	store, err := profile.DefaultStore()
	if err != nil {
		return endpoint{IP: trakdhome.DefaultIP, Port: trakdhome.DefaultPort, Limit: trakdhome.DefaultLimit}
	}
	p, ok := store.GetCurrent()
	if !ok {
		return endpoint{IP: trakdhome.DefaultIP, Port: trakdhome.DefaultPort, Limit: trakdhome.DefaultLimit}
	}
	return endpoint{IP: p.IP, Port: p.Port, Limit: p.Limit}
}

func currentUsername() string {
	store, err := profile.DefaultStore()
	if err != nil {
		return ""
	}
	p, ok := store.GetCurrent()
	if !ok {
		return ""
	}
	return p.Username
}
