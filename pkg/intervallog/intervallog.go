// Package intervallog implements the per-day, per-user durable interval
// log: append-structured text files under a directory lock
// discipline, one file per calendar day, one line per recorded
// interval.
package intervallog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/7ched7/trakd/pkg/filelock"
	"github.com/7ched7/trakd/pkg/trakdhome"
)

// NoneEnd is the literal stored in the end field of an open interval.
const NoneEnd = "None"

const timeLayout = "2006-01-02T15:04:05.999999"
const dayFileLayout = "20060102"

// Interval is one recorded (start, end) run for a process. End is the
// zero time while the interval is open; Open mirrors that for callers
// that would rather not compare against time.Time{}.
type Interval struct {
	Start time.Time
	End   time.Time
	Open  bool
}

func (iv Interval) line(process string) string {
	endStr := NoneEnd
	if !iv.Open {
		endStr = iv.End.Format(timeLayout)
	}
	return fmt.Sprintf("%s|%s|%s", process, iv.Start.Format(timeLayout), endStr)
}

// DayMap is the in-memory shape of one day file: process name to its
// ordered intervals.
type DayMap map[string][]Interval

// Store is the durable interval log for one username.
type Store struct {
	username string
}

// NewStore returns a Store for username, rooted at the platform
// trakd_home.
func NewStore(username string) *Store {
	return &Store{username: username}
}

func (s *Store) dir() (string, error) {
	return trakdhome.UserLogDir(s.username)
}

func (s *Store) dayPath(date time.Time) (string, error) {
	dir, err := s.dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, date.Format(dayFileLayout)), nil
}

// Read returns the parsed contents of date's day file. A missing file
// yields an empty map, not an error; lines that do not split into
// exactly three `|`-separated fields are skipped silently.
func (s *Store) Read(date time.Time) (DayMap, error) {
	dir, err := s.dir()
	if err != nil {
		return nil, err
	}
	lk, err := filelock.Acquire(dir, trakdhome.LockFileName)
	if err != nil {
		return nil, err
	}
	defer lk.Unlock()
	return s.readUnlocked(date)
}

func (s *Store) readUnlocked(date time.Time) (DayMap, error) {
	path, err := s.dayPath(date)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DayMap{}, nil
		}
		return DayMap{}, nil
	}
	defer f.Close()

	out := DayMap{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\n")
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "|", 3)
		if len(fields) != 3 {
			continue
		}
		process := fields[0]
		start, err := time.Parse(timeLayout, strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		endStr := strings.TrimSpace(fields[2])
		iv := Interval{Start: start}
		if endStr == NoneEnd {
			iv.Open = true
		} else {
			end, err := time.Parse(timeLayout, endStr)
			if err != nil {
				continue
			}
			iv.End = end
		}
		out[process] = append(out[process], iv)
	}
	return out, nil
}

// Write rewrites date's day file in full from data, under the directory
// lock: one line per interval, each process's intervals in append
// order. The order of the processes within the file is not defined.
func (s *Store) Write(date time.Time, data DayMap) error {
	dir, err := s.dir()
	if err != nil {
		return err
	}
	lk, err := filelock.Acquire(dir, trakdhome.LockFileName)
	if err != nil {
		return err
	}
	defer lk.Unlock()
	return s.writeUnlocked(date, data)
}

func (s *Store) writeUnlocked(date time.Time, data DayMap) error {
	path, err := s.dayPath(date)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	for process, intervals := range data {
		for _, iv := range intervals {
			if _, err := w.WriteString(iv.line(process) + "\n"); err != nil {
				f.Close()
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// AppendOpen appends a fresh open interval for process, starting at
// start, to date's day file.
func (s *Store) AppendOpen(date time.Time, process string, start time.Time) error {
	dir, err := s.dir()
	if err != nil {
		return err
	}
	lk, err := filelock.Acquire(dir, trakdhome.LockFileName)
	if err != nil {
		return err
	}
	defer lk.Unlock()

	data, err := s.readUnlocked(date)
	if err != nil {
		return err
	}
	data[process] = append(data[process], Interval{Start: start, Open: true})
	return s.writeUnlocked(date, data)
}

// UpdateLastEnd overwrites the end field of process's most recently
// appended interval in date's day file with end. This is used both as
// the immediate post-open checkpoint (bounding crash loss to
// ~1s) and as the periodic 5-minute checkpoint and the final close on a
// stopped transition or shutdown — all three are "rewrite the last
// interval's end".
func (s *Store) UpdateLastEnd(date time.Time, process string, end time.Time) error {
	dir, err := s.dir()
	if err != nil {
		return err
	}
	lk, err := filelock.Acquire(dir, trakdhome.LockFileName)
	if err != nil {
		return err
	}
	defer lk.Unlock()

	data, err := s.readUnlocked(date)
	if err != nil {
		return err
	}
	intervals := data[process]
	if len(intervals) == 0 {
		return fmt.Errorf("intervallog: no interval for process %q on %s", process, date.Format(dayFileLayout))
	}
	last := len(intervals) - 1
	intervals[last].Open = false
	intervals[last].End = end
	data[process] = intervals
	return s.writeUnlocked(date, data)
}

// endOfDay returns 23:59:59.999999 on the calendar date of t.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999999000, t.Location())
}

// startOfDay returns 00:00:00 on the calendar date of t.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CloseSpanningMidnight closes the interval that began at start for
// process, ending at end. If start and end fall on the same calendar
// date this is exactly UpdateLastEnd. Otherwise:
// the start-day file's last interval is closed at 23:59:59.999999;
// every whole intermediate day gets a synthetic full-day interval; and
// end's day file gets a single synthetic interval from midnight to end.
func (s *Store) CloseSpanningMidnight(process string, start, end time.Time) error {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy == ey && sm == em && sd == ed {
		return s.UpdateLastEnd(start, process, end)
	}

	if err := s.UpdateLastEnd(start, process, endOfDay(start)); err != nil {
		return err
	}

	day := startOfDay(start).AddDate(0, 0, 1)
	endDay := startOfDay(end)
	for day.Before(endDay) {
		if err := s.writeWholeDay(day, process, startOfDay(day), endOfDay(day)); err != nil {
			return err
		}
		day = day.AddDate(0, 0, 1)
	}

	return s.writeWholeDay(endDay, process, startOfDay(endDay), end)
}

func (s *Store) writeWholeDay(date time.Time, process string, start, end time.Time) error {
	dir, err := s.dir()
	if err != nil {
		return err
	}
	lk, err := filelock.Acquire(dir, trakdhome.LockFileName)
	if err != nil {
		return err
	}
	defer lk.Unlock()

	data, err := s.readUnlocked(date)
	if err != nil {
		return err
	}
	data[process] = []Interval{{Start: start, End: end}}
	return s.writeUnlocked(date, data)
}

// ParseDayFileName parses a YYYYMMDD file name into a time.Time at
// midnight UTC. It returns an error (not a panic) on malformed names so
// report-range scans can skip directory entries that are not day files.
func ParseDayFileName(name string) (time.Time, error) {
	if len(name) != 8 {
		return time.Time{}, fmt.Errorf("intervallog: %q is not a YYYYMMDD file name", name)
	}
	if _, err := strconv.Atoi(name); err != nil {
		return time.Time{}, err
	}
	return time.Parse(dayFileLayout, name)
}
