package stats

import (
	"testing"
	"time"

	"wellness_tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	berlin = time.FixedZone("CEST", 2*60*60)
	now    = time.Date(2025, 6, 18, 15, 4, 0, 0, time.UTC)
)

func daysAgo(n int, hour int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-n, hour, 0, 0, 0, time.UTC)
}

func entry(at time.Time, secs int) models.HistoryEntry {
	return models.HistoryEntry{Date: at, ActualDurationSeconds: secs, Completed: true}
}

func TestStreak(t *testing.T) {
	cases := []struct {
		name  string
		dates []time.Time
		want  int
	}{
		{"no_entries", nil, 0},
		{"three_consecutive_days", []time.Time{daysAgo(0, 8), daysAgo(1, 8), daysAgo(2, 8)}, 3},
		{"gap_after_today", []time.Time{daysAgo(0, 8), daysAgo(2, 8)}, 1},
		{"two_today_then_yesterday", []time.Time{daysAgo(0, 8), daysAgo(0, 14), daysAgo(1, 8)}, 1},
		{"nothing_today", []time.Time{daysAgo(1, 8), daysAgo(2, 8)}, 0},
		{"unsorted_input", []time.Time{daysAgo(2, 23), daysAgo(0, 0), daysAgo(1, 12)}, 3},
		{"duplicate_ends_walk_later", []time.Time{daysAgo(0, 8), daysAgo(1, 8), daysAgo(1, 9), daysAgo(2, 8)}, 2},
		{"future_entry_is_skipped", []time.Time{daysAgo(-1, 8), daysAgo(0, 8), daysAgo(1, 8)}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Streak(tc.dates, now))
		})
	}
}

func TestStreak_UsesLocalCalendarDay(t *testing.T) {
	// 23:30 UTC on the 17th is already the 18th in Berlin.
	late := time.Date(2025, 6, 17, 23, 30, 0, 0, time.UTC)
	today := time.Date(2025, 6, 18, 10, 0, 0, 0, berlin)

	assert.Equal(t, 1, Streak([]time.Time{late}, today))
	assert.Equal(t, 0, Streak([]time.Time{late}, today.In(time.UTC).AddDate(0, 0, 1)))
}

func TestStreak_DoesNotMutateInput(t *testing.T) {
	dates := []time.Time{daysAgo(2, 8), daysAgo(0, 8), daysAgo(1, 8)}
	orig := append([]time.Time(nil), dates...)
	_ = Streak(dates, now)
	assert.Equal(t, orig, dates)
}

func TestCompute(t *testing.T) {
	exercises := []models.Exercise{
		{
			ID:        "a",
			Completed: true,
			History:   []models.HistoryEntry{entry(daysAgo(1, 9), 125), entry(daysAgo(0, 7), 60)},
		},
		{
			ID:        "b",
			Completed: false, // reset after running
			History:   []models.HistoryEntry{entry(daysAgo(2, 18), 300)},
		},
		{ID: "c"},
	}

	got := Compute(exercises, now)

	assert.Equal(t, 3, got.TotalExercises)
	assert.Equal(t, 1, got.CompletedExercises)
	assert.Equal(t, 485, got.TotalTrainingSeconds)
	assert.Equal(t, 3, got.Streak)
	require.NotNil(t, got.LastTrainedAt)
	assert.Equal(t, daysAgo(0, 7), *got.LastTrainedAt)
}

func TestCompute_TotalIndependentOfOrder(t *testing.T) {
	h := []models.HistoryEntry{entry(daysAgo(5, 1), 10), entry(daysAgo(3, 1), 20), entry(daysAgo(4, 1), 30)}
	forward := []models.Exercise{{History: h[:2]}, {History: h[2:]}}
	backward := []models.Exercise{{History: []models.HistoryEntry{h[2]}}, {History: []models.HistoryEntry{h[1], h[0]}}}

	assert.Equal(t, 60, Compute(forward, now).TotalTrainingSeconds)
	assert.Equal(t, 60, Compute(backward, now).TotalTrainingSeconds)
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil, now)
	assert.Equal(t, models.Statistics{}, got)
	assert.Nil(t, got.LastTrainedAt)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "02:05", FormatClock(125))
	assert.Equal(t, "61:01", FormatClock(3661))
	assert.Equal(t, "00:00", FormatClock(-4))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(59))
	assert.Equal(t, "45m", FormatDuration(45*60))
	assert.Equal(t, "1h 30m", FormatDuration(90*60+12))
	assert.Equal(t, "2h 0m", FormatDuration(7200))
}
