package models

import "time"

// Statistics are the adherence counters derived from all exercises of a user.
type Statistics struct {
	TotalExercises       int        `json:"total_exercises"`
	CompletedExercises   int        `json:"completed_exercises"`
	TotalTrainingSeconds int        `json:"total_training_seconds"`
	Streak               int        `json:"streak"` // consecutive days ending today
	LastTrainedAt        *time.Time `json:"last_trained_at,omitempty"`
}
