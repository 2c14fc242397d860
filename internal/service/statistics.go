package service

import (
	"context"
	"time"

	"wellness_tracker/internal/models"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/stats"
	"wellness_tracker/internal/timer"
)

type StatisticsService struct {
	store repository.ExerciseStore
	now   func() time.Time
}

// NewStatisticsService computes summaries against clock; nil means wall-clock time.
func NewStatisticsService(store repository.ExerciseStore, clock timer.Clock) *StatisticsService {
	now := time.Now
	if clock != nil {
		now = clock.Now
	}
	return &StatisticsService{store: store, now: now}
}

// Summary loads every exercise of the user and derives the adherence counters.
// The streak is evaluated in the server's local time zone.
func (s *StatisticsService) Summary(ctx context.Context, userID int) (models.Statistics, error) {
	exercises, err := s.store.List(ctx, userID)
	if err != nil {
		return models.Statistics{}, err
	}
	return stats.Compute(exercises, s.now()), nil
}
