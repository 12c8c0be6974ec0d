package main

import (
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/7ched7/trakd/pkg/intervallog"
	"github.com/7ched7/trakd/pkg/report"
)

// cmdReport implements "trakd report [--daily|--weekly|--monthly]";
// --daily is the default.
func cmdReport(args []string) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.Bool("daily", false, "show daily report")
	weekly := fs.Bool("weekly", false, "show weekly report")
	monthly := fs.Bool("monthly", false, "show monthly report")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	now := time.Now()
	var r report.Range
	switch {
	case *monthly:
		r = report.MonthlyRange(now)
	case *weekly:
		r = report.WeeklyRange(now)
	default:
		r = report.DailyRange(now)
	}

	username := currentUsername()
	store := intervallog.NewStore(username)
	eng := report.NewEngine(store, 4)

	totals, err := eng.Generate(r)
	if err != nil {
		log.Error("report: %v", err)
		return 1
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-24s %-14s %s\n", "PROCESS", "TOTAL", "ACTIVE DAYS")
	for _, name := range names {
		t := totals[name]
		fmt.Printf("%-24s %-14s %d\n", name, formatDuration(t.TotalSeconds), t.ActiveDays)
	}
	return 0
}

func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
