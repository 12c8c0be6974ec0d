package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/7ched7/trakd/pkg/profile"
	"github.com/7ched7/trakd/pkg/trakdhome"
)

// cmdUser implements "trakd user {add|rm|switch|rename|ls}".
func cmdUser(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: trakd user {add|rm|switch|rename|ls}")
		return 2
	}

	store, err := profile.DefaultStore()
	if err != nil {
		log.Error("resolving profile store: %v", err)
		return 1
	}

	switch args[0] {
	case "add":
		return userAdd(store, args[1:])
	case "rm":
		return userRm(store, args[1:])
	case "switch":
		return userSwitch(store, args[1:])
	case "rename":
		return userRename(store, args[1:])
	case "ls":
		return userLs(store)
	default:
		fmt.Fprintf(os.Stderr, "trakd user: unknown subcommand %q\n", args[0])
		return 2
	}
}

func userAdd(store *profile.Store, args []string) int {
	fs := flag.NewFlagSet("user add", flag.ContinueOnError)
	switchTo := fs.Bool("s", false, "switch after user is created")
	verbose := fs.Bool("v", false, "show what is being done")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trakd user add <username> [-s] [-v]")
		return 2
	}
	username := fs.Arg(0)
	if err := profile.ValidateUsername(username); err != nil {
		log.Error("user add: %v", err)
		return 1
	}

	created, err := store.Create(profile.Profile{
		Username: username,
		IP:       trakdhome.DefaultIP,
		Port:     trakdhome.DefaultPort,
		Limit:    trakdhome.DefaultLimit,
	})
	if err != nil {
		log.Error("user add %s: %v", username, err)
		return 1
	}
	if !created {
		log.Error("user add %s: a profile with that name already exists", username)
		return 1
	}
	if *switchTo {
		if _, err := store.Switch(username); err != nil {
			log.Error("user add %s: switching: %v", username, err)
			return 1
		}
	}
	if *verbose {
		fmt.Printf("added user %s\n", username)
	}
	return 0
}

func userRm(store *profile.Store, args []string) int {
	fs := flag.NewFlagSet("user rm", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "show what is being done")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trakd user rm <username> [-v]")
		return 2
	}
	username := fs.Arg(0)

	removed, err := store.Remove(username)
	if err != nil {
		log.Error("user rm %s: %v", username, err)
		return 1
	}
	if !removed {
		log.Error("user rm %s: no such user", username)
		return 1
	}
	if *verbose {
		fmt.Printf("removed user %s\n", username)
	}
	return 0
}

func userSwitch(store *profile.Store, args []string) int {
	fs := flag.NewFlagSet("user switch", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "show what is being done")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trakd user switch <username> [-v]")
		return 2
	}
	username := fs.Arg(0)

	switched, err := store.Switch(username)
	if err != nil {
		log.Error("user switch %s: %v", username, err)
		return 1
	}
	if !switched {
		log.Error("user switch %s: no such user", username)
		return 1
	}
	if *verbose {
		fmt.Printf("switched to %s\n", username)
	}
	return 0
}

func userRename(store *profile.Store, args []string) int {
	fs := flag.NewFlagSet("user rename", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "show what is being done")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: trakd user rename <old_username> <new_username> [-v]")
		return 2
	}
	oldName, newName := fs.Arg(0), fs.Arg(1)
	if err := profile.ValidateUsername(newName); err != nil {
		log.Error("user rename: %v", err)
		return 1
	}
	for _, p := range store.GetProfiles() {
		if p.Username == newName {
			log.Error("user rename: a profile named %s already exists", newName)
			return 1
		}
	}

	renamed, err := store.Rename(oldName, newName)
	if err != nil {
		log.Error("user rename %s %s: %v", oldName, newName, err)
		return 1
	}
	if !renamed {
		log.Error("user rename %s %s: no such user", oldName, newName)
		return 1
	}
	if *verbose {
		fmt.Printf("renamed %s to %s\n", oldName, newName)
	}
	return 0
}

// userLs prints every profile with the selected one marked.
func userLs(store *profile.Store) int {
	profiles := store.GetProfiles()
	current, hasCurrent := store.GetCurrent()

	for _, p := range profiles {
		marker := " "
		if hasCurrent && p.Username == current.Username {
			marker = "*"
		}
		fmt.Printf("%s %-16s %-16s %-6d %d\n", marker, p.Username, p.IP, p.Port, p.Limit)
	}
	return 0
}
