// Package stats derives adherence statistics from exercise histories.
// Everything here is pure: inputs are never mutated.
package stats

import (
	"fmt"
	"sort"
	"time"

	"wellness_tracker/internal/models"
)

// Compute aggregates counters over all exercises. now fixes "today" for the streak.
func Compute(exercises []models.Exercise, now time.Time) models.Statistics {
	var (
		out   models.Statistics
		last  time.Time
		dates []time.Time
	)
	out.TotalExercises = len(exercises)

	for _, ex := range exercises {
		if ex.Completed {
			out.CompletedExercises++
		}
		for _, h := range ex.History {
			out.TotalTrainingSeconds += h.ActualDurationSeconds
			if h.Date.After(last) {
				last = h.Date
			}
			dates = append(dates, h.Date)
		}
	}

	if !last.IsZero() {
		out.LastTrainedAt = &last
	}
	out.Streak = Streak(dates, now)
	return out
}

// Streak counts consecutive calendar days, walking back from today's date, that have a history entry.
//
// Same-day duplicates are not collapsed: once a day has been counted, a second entry for that
// day ends the walk. Two sessions today followed by one yesterday therefore yield 1, not 2.
// Entries dated after the expected day that are not a repeat of a counted day are skipped.
func Streak(dates []time.Time, now time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	loc := now.Location()

	days := make([]time.Time, len(dates))
	for i, d := range dates {
		days[i] = midnight(d.In(loc))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	var (
		streak   int
		expected = midnight(now)
		consumed time.Time
	)
	for _, day := range days {
		switch {
		case day.Equal(expected):
			streak++
			consumed = day
			expected = expected.AddDate(0, 0, -1)
		case day.Before(expected):
			return streak
		case !consumed.IsZero() && day.Equal(consumed):
			return streak
		}
	}
	return streak
}

// midnight truncates t to the start of its calendar day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// FormatDuration renders seconds as "1h 30m", or "45m" under an hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
