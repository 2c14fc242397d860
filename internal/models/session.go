package models

// SessionState is a phase of the interval timer.
type SessionState string

const (
	StatePreparation SessionState = "preparation"
	StateWork        SessionState = "work"
	StateRest        SessionState = "rest"
	StatePaused      SessionState = "paused"
	StateCompleted   SessionState = "completed"
)

// Snapshot is the externally visible view of a timer session.
type Snapshot struct {
	State               SessionState `json:"state"`
	RemainingSeconds    int          `json:"remaining_seconds"`
	CurrentSeries       int          `json:"current_series"` // 1-based
	TotalElapsedSeconds int          `json:"total_elapsed_seconds"`
	SeriesCount         int          `json:"series_count"`
	Running             bool         `json:"running"`
	ProgressPercent     float64      `json:"progress_percent"`
}
