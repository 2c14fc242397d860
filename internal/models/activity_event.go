package models

import "time"

// Activity event types written to the session log.
const (
	EventSessionStart  = "SESSION_START"
	EventPause         = "PAUSE"
	EventResume        = "RESUME"
	EventReset         = "RESET"
	EventAbandon       = "ABANDON"
	EventCompleted     = "COMPLETED"
	EventPersistFailed = "HISTORY_PERSIST_FAILED"
)

// ActivityEvent is a single session log entry.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	UserID      int       `json:"-"`
	ExerciseID  string    `json:"exercise_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
