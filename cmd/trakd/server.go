package main

import (
	"fmt"
	"os"

	"github.com/7ched7/trakd/pkg/broker"
	"github.com/7ched7/trakd/pkg/brokerclient"
	"github.com/7ched7/trakd/pkg/daemonize"
	"github.com/7ched7/trakd/pkg/service"
)

func cmdServer(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: trakd server {run|start|stop|status|install|remove|enable|disable}")
		return 2
	}

	switch args[0] {
	case "run":
		return serverRun()
	case "start":
		return serverStart(args[1:])
	case "stop":
		return serverStop()
	case "status":
		return serverStatus()
	case "install":
		return serverInstall()
	case "remove":
		return serverRemove()
	case "enable":
		return serverEnable()
	case "disable":
		return serverDisable()
	default:
		fmt.Fprintf(os.Stderr, "trakd server: unknown subcommand %q\n", args[0])
		return 2
	}
}

// serverRun is the broker's foreground entry point.
func serverRun() int {
	ep := currentEndpoint()
	b := broker.New(ep.IP, ep.Port, ep.Limit, log)
	log.Info("starting broker on %s:%d (limit %d)", ep.IP, ep.Port, ep.Limit)
	if err := b.Run(); err != nil {
		log.Error("broker: %v", err)
		return 1
	}
	return 0
}

// serverStart is the daemonized variant of server run: it
// relaunches the current binary as "server run" detached, unless
// -f/--fg says to stay in the foreground.
func serverStart(args []string) int {
	ep := currentEndpoint()
	if brokerclient.New(ep.IP, ep.Port).IsRunning() {
		log.Error("broker already running on %s:%d", ep.IP, ep.Port)
		return 1
	}
	if hasForeground(args) {
		return serverRun()
	}
	if err := daemonize.Daemonize([]string{"server", "run", daemonize.ForegroundFlag}); err != nil {
		log.Error("starting broker: %v", err)
		return 1
	}
	return 0
}

func hasForeground(args []string) bool {
	for _, a := range args {
		if a == "-f" || a == daemonize.ForegroundFlag {
			return true
		}
	}
	return false
}

func serverStop() int {
	ep := currentEndpoint()
	c := brokerclient.New(ep.IP, ep.Port)
	if !c.IsRunning() {
		log.Error("broker is not running on %s:%d", ep.IP, ep.Port)
		return 1
	}
	if err := c.Stop(); err != nil {
		log.Error("stopping broker: %v", err)
		return 1
	}
	fmt.Println("stop requested")
	return 0
}

func serverStatus() int {
	ep := currentEndpoint()
	c := brokerclient.New(ep.IP, ep.Port)
	status, err := c.Status()
	if err != nil {
		log.Error("broker is not responding on %s:%d: %v", ep.IP, ep.Port, err)
		return 1
	}
	fmt.Printf("ip=%s port=%d tracked=%d running=%d stopped=%d\n",
		status.IP, status.Port, status.TrackedProcesses, status.Running, status.Stopped)
	return 0
}

func serverInstall() int {
	exe, err := os.Executable()
	if err != nil {
		log.Error("resolving executable path: %v", err)
		return 1
	}
	if err := service.New().Install(exe); err != nil {
		log.Error("installing service: %v", err)
		return 1
	}
	fmt.Println("service installed")
	return 0
}

func serverRemove() int {
	if err := service.New().Remove(); err != nil {
		log.Error("removing service: %v", err)
		return 1
	}
	fmt.Println("service removed")
	return 0
}

func serverEnable() int {
	if err := service.New().Enable(); err != nil {
		log.Error("enabling service: %v", err)
		return 1
	}
	fmt.Println("service enabled")
	return 0
}

func serverDisable() int {
	if err := service.New().Disable(); err != nil {
		log.Error("disabling service: %v", err)
		return 1
	}
	fmt.Println("service disabled")
	return 0
}
