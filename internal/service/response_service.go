package service

import (
	"time"

	"wellness_tracker/internal/models"
)

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "SESSION_START", "PAUSE", "RESUME", "RESET", "ABANDON", "COMPLETED", "HISTORY_PERSIST_FAILED"
}

// ExerciseInput is the payload of a new exercise. A nil Timer stores the default creation timer.
type ExerciseInput struct {
	Name        string
	Description string
	Category    string
	Timer       *models.TimerConfig
}

// SessionResult is the outcome of a session control call.
// Changed is false when the call was not valid in the current state.
type SessionResult struct {
	Snapshot models.Snapshot `json:"snapshot"`
	Changed  bool            `json:"changed"`
}
