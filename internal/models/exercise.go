package models

import "time"

// Fallback timer values applied by NormalizeConfig.
const (
	DefaultWorkSeconds = 30
	DefaultRestSeconds = 15
	DefaultSeriesCount = 3
	DefaultPrepSeconds = 5
)

// Stored on new exercises that come without a timer, matching what the mobile app created.
const (
	createWorkSeconds = 30
	createRestSeconds = 10
	createSeriesCount = 3

	DefaultCategory = "custom"
)

// TimerConfig describes one interval session.
type TimerConfig struct {
	WorkSeconds int `json:"work_seconds" yaml:"work_seconds"`
	RestSeconds int `json:"rest_seconds" yaml:"rest_seconds"`
	SeriesCount int `json:"series_count" yaml:"series_count"`
	PrepSeconds int `json:"prep_seconds,omitempty" yaml:"prep_seconds"`
}

// NormalizeConfig replaces every non-positive field with its default.
// It never fails; callers get a config that is safe to run.
func NormalizeConfig(c TimerConfig) TimerConfig {
	if c.WorkSeconds <= 0 {
		c.WorkSeconds = DefaultWorkSeconds
	}
	if c.RestSeconds <= 0 {
		c.RestSeconds = DefaultRestSeconds
	}
	if c.SeriesCount <= 0 {
		c.SeriesCount = DefaultSeriesCount
	}
	if c.PrepSeconds <= 0 {
		c.PrepSeconds = DefaultPrepSeconds
	}
	return c
}

// CreationTimer is the timer stored for an exercise created without one.
func CreationTimer() TimerConfig {
	return TimerConfig{
		WorkSeconds: createWorkSeconds,
		RestSeconds: createRestSeconds,
		SeriesCount: createSeriesCount,
	}
}

// EstimatedDuration is the rough per-exercise duration shown in listings: (work + rest) * series.
// The exact session length is timer.TotalDuration. Invalid configs estimate to 0.
func (c TimerConfig) EstimatedDuration() int {
	if c.SeriesCount <= 0 {
		return 0
	}
	return max(0, (c.WorkSeconds+c.RestSeconds)*c.SeriesCount)
}

// Exercise is a user-owned interval exercise together with its session history.
type Exercise struct {
	ID              string         `json:"id"`
	UserID          int            `json:"-"`
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	Category        string         `json:"category"`
	Timer           TimerConfig    `json:"timer"`
	DurationSeconds int            `json:"duration_seconds"`
	Completed       bool           `json:"completed"` // outcome of the most recent session only
	TimesCompleted  int            `json:"times_completed"`
	History         []HistoryEntry `json:"history,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// ExercisePatch carries the editable fields of an exercise; nil means unchanged.
type ExercisePatch struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Timer       *TimerConfig `json:"timer,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ExercisePatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Category == nil && p.Timer == nil
}

// HistoryEntry records one finished session. Entries are append-only.
type HistoryEntry struct {
	ID                    string    `json:"id"`
	ExerciseID            string    `json:"exercise_id"`
	Date                  time.Time `json:"date"`
	ActualDurationSeconds int       `json:"actual_duration_seconds"`
	Completed             bool      `json:"completed"`
	Notes                 string    `json:"notes,omitempty"`
}
