package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/7ched7/trakd/pkg/intervallog"
)

func TestGenerateDailySumsClosedIntervals(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store := intervallog.NewStore("bob")
	day := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.AppendOpen(day, "editor", day.Add(9*time.Hour)))
	require.NoError(t, store.UpdateLastEnd(day, "editor", day.Add(11*time.Hour)))
	require.NoError(t, store.AppendOpen(day, "editor", day.Add(13*time.Hour)))
	require.NoError(t, store.UpdateLastEnd(day, "editor", day.Add(13*time.Hour+30*time.Minute)))

	eng := NewEngine(store, 2)
	totals, err := eng.Generate(Range{From: day, To: day})
	require.NoError(t, err)

	got, ok := totals["editor"]
	require.True(t, ok)
	assert.InDelta(t, 2.5*3600, got.TotalSeconds, 0.001)
	assert.Equal(t, 1, got.ActiveDays)
}

func TestGenerateAcrossMultipleDays(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store := intervallog.NewStore("carol")
	day1 := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, store.AppendOpen(day1, "build", day1.Add(1*time.Hour)))
	require.NoError(t, store.UpdateLastEnd(day1, "build", day1.Add(2*time.Hour)))
	require.NoError(t, store.AppendOpen(day2, "build", day2.Add(1*time.Hour)))
	require.NoError(t, store.UpdateLastEnd(day2, "build", day2.Add(3*time.Hour)))

	eng := NewEngine(store, 4)
	totals, err := eng.Generate(Range{From: day1, To: day2})
	require.NoError(t, err)

	got := totals["build"]
	assert.InDelta(t, 3*3600, got.TotalSeconds, 0.001)
	assert.Equal(t, 2, got.ActiveDays)
}

func TestGenerateEmptyRangeReturnsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	store := intervallog.NewStore("dave")
	eng := NewEngine(store, 1)

	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	totals, err := eng.Generate(Range{From: day, To: day})
	require.NoError(t, err)
	assert.Empty(t, totals)
}

func TestRangePresets(t *testing.T) {
	now := time.Date(2026, 7, 31, 15, 4, 5, 0, time.UTC)

	d := DailyRange(now)
	assert.Equal(t, d.From, d.To)

	w := WeeklyRange(now)
	assert.Equal(t, 6, int(w.To.Sub(w.From).Hours()/24))

	m := MonthlyRange(now)
	assert.Equal(t, 29, int(m.To.Sub(m.From).Hours()/24))
}
