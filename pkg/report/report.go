// Package report scans a date range of per-day interval-log files and
// aggregates, per process, total tracked seconds and the number of
// distinct days the process was active on. Day files are independent of
// one another, so they are scanned concurrently as a go-taskflow DAG
// with one task per day and no edges between them.
package report

import (
	"fmt"
	"time"

	gotaskflow "github.com/noneback/go-taskflow"

	"github.com/7ched7/trakd/pkg/intervallog"
)

// ProcessTotal is one process's aggregated figures over a report range.
type ProcessTotal struct {
	ProcessName  string
	TotalSeconds float64
	ActiveDays   int
}

// Range is an inclusive span of calendar days.
type Range struct {
	From time.Time
	To   time.Time
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DailyRange covers only today (the "--daily" preset).
func DailyRange(now time.Time) Range {
	d := dayStart(now)
	return Range{From: d, To: d}
}

// WeeklyRange covers the last 7 calendar days including today.
func WeeklyRange(now time.Time) Range {
	d := dayStart(now)
	return Range{From: d.AddDate(0, 0, -6), To: d}
}

// MonthlyRange covers the last 30 calendar days including today.
func MonthlyRange(now time.Time) Range {
	d := dayStart(now)
	return Range{From: d.AddDate(0, 0, -29), To: d}
}

func (r Range) days() []time.Time {
	var out []time.Time
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Engine generates reports for one user's interval log.
type Engine struct {
	store       *intervallog.Store
	concurrency uint
}

// NewEngine returns an Engine reading from store, scanning up to
// concurrency day files in parallel.
func NewEngine(store *intervallog.Store, concurrency uint) *Engine {
	if concurrency == 0 {
		concurrency = 1
	}
	return &Engine{store: store, concurrency: concurrency}
}

// Generate aggregates every day file in r into per-process totals. A
// process with zero closed seconds but at least one recorded interval
// still counts as active for at least one day (active-days is floored
// to 1 for any process with data in range).
func (e *Engine) Generate(r Range) (map[string]ProcessTotal, error) {
	days := r.days()
	if len(days) == 0 {
		return map[string]ProcessTotal{}, nil
	}

	perDay := make([]map[string]float64, len(days))
	perDayErr := make([]error, len(days))
	now := time.Now()

	tf := gotaskflow.NewTaskFlow(fmt.Sprintf("report-%s", r.From.Format("20060102")))
	for i, day := range days {
		i, day := i, day
		tf.NewTask(day.Format("20060102"), func() {
			seconds, err := e.scanDay(day, now)
			if err != nil {
				perDayErr[i] = err
				return
			}
			perDay[i] = seconds
		})
	}

	executor := gotaskflow.NewExecutor(e.concurrency)
	executor.Run(tf).Wait()

	for _, err := range perDayErr {
		if err != nil {
			return nil, err
		}
	}

	totals := make(map[string]ProcessTotal)
	for _, daySeconds := range perDay {
		for process, seconds := range daySeconds {
			t := totals[process]
			t.ProcessName = process
			t.TotalSeconds += seconds
			t.ActiveDays++
			totals[process] = t
		}
	}
	for process, t := range totals {
		if t.ActiveDays < 1 {
			t.ActiveDays = 1
			totals[process] = t
		}
	}
	return totals, nil
}

// scanDay returns, per process, the total seconds recorded in day's
// file. An interval still open when day is the current day is counted
// up to now; an open interval found on any earlier day (which the
// interval log's midnight-spanning writer should never leave behind) is
// counted up to the end of that day rather than discarded.
func (e *Engine) scanDay(day, now time.Time) (map[string]float64, error) {
	data, err := e.store.Read(day)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(data))
	for process, intervals := range data {
		var total float64
		for _, iv := range intervals {
			end := iv.End
			if iv.Open {
				if sameCalendarDay(day, now) {
					end = now
				} else {
					end = dayStart(day).Add(24 * time.Hour)
				}
			}
			if end.Before(iv.Start) {
				continue
			}
			total += end.Sub(iv.Start).Seconds()
		}
		out[process] = total
	}
	return out, nil
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
