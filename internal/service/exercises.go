package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wellness_tracker/internal/models"
	"wellness_tracker/internal/repository"
)

var (
	ErrExerciseNotFound = repository.ErrExerciseNotFound
	ErrInvalidExercise  = errors.New("invalid exercise")
)

// sessionDropper discards a live session whose exercise is going away.
type sessionDropper interface {
	Drop(userID int, exerciseID string)
}

type ExerciseService struct {
	store    repository.ExerciseStore
	sessions sessionDropper
}

func NewExerciseService(store repository.ExerciseStore, sessions sessionDropper) *ExerciseService {
	return &ExerciseService{store: store, sessions: sessions}
}

// Create stores a new exercise. The duration estimate is derived from the timer.
func (s *ExerciseService) Create(ctx context.Context, userID int, in ExerciseInput) (models.Exercise, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Exercise{}, fmt.Errorf("%w: name is required", ErrInvalidExercise)
	}
	cfg := models.CreationTimer()
	if in.Timer != nil {
		cfg = *in.Timer
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	id, err := s.store.Create(ctx, models.Exercise{
		UserID:          userID,
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		Category:        category,
		Timer:           cfg,
		DurationSeconds: cfg.EstimatedDuration(),
	})
	if err != nil {
		return models.Exercise{}, err
	}
	return s.Get(ctx, userID, id)
}

func (s *ExerciseService) Get(ctx context.Context, userID int, id string) (models.Exercise, error) {
	ex, err := s.store.Get(ctx, userID, id)
	if err != nil {
		return models.Exercise{}, err
	}
	if ex == nil {
		return models.Exercise{}, ErrExerciseNotFound
	}
	return *ex, nil
}

func (s *ExerciseService) List(ctx context.Context, userID int) ([]models.Exercise, error) {
	return s.store.List(ctx, userID)
}

// Update applies patch and returns the stored result. An empty patch is a read.
func (s *ExerciseService) Update(ctx context.Context, userID int, id string, patch models.ExercisePatch) (models.Exercise, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return models.Exercise{}, fmt.Errorf("%w: name must not be empty", ErrInvalidExercise)
		}
		patch.Name = &name
	}
	if !patch.Empty() {
		if err := s.store.Update(ctx, userID, id, patch); err != nil {
			return models.Exercise{}, err
		}
	}
	return s.Get(ctx, userID, id)
}

// Delete removes the exercise and its history and drops any live session for it.
func (s *ExerciseService) Delete(ctx context.Context, userID int, id string) error {
	if err := s.store.Delete(ctx, userID, id); err != nil {
		return err
	}
	if s.sessions != nil {
		s.sessions.Drop(userID, id)
	}
	return nil
}

// Reset clears the completed flag so the exercise shows as pending again.
func (s *ExerciseService) Reset(ctx context.Context, userID int, id string) error {
	return s.store.ResetCompleted(ctx, userID, id)
}

func (s *ExerciseService) History(ctx context.Context, userID int, id string) ([]models.HistoryEntry, error) {
	entries, err := s.store.History(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}
	// no rows: tell an empty history from an unknown exercise
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return []models.HistoryEntry{}, nil
}
