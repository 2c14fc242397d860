package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wellness_tracker/internal/models"
)

// ErrExerciseNotFound is returned by mutations addressing an unknown exercise.
var ErrExerciseNotFound = errors.New("exercise not found")

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

// ExerciseStore owns exercises and their history lists. All reads and edits are scoped to a user;
// AppendHistory is addressed by exercise id only because it comes from a running session.
type ExerciseStore interface {
	Get(ctx context.Context, userID int, id string) (*models.Exercise, error)
	List(ctx context.Context, userID int) ([]models.Exercise, error)
	Create(ctx context.Context, e models.Exercise) (string, error)
	Update(ctx context.Context, userID int, id string, patch models.ExercisePatch) error
	ResetCompleted(ctx context.Context, userID int, id string) error
	AppendHistory(ctx context.Context, exerciseID string, entry models.HistoryEntry) error
	History(ctx context.Context, userID int, id string) ([]models.HistoryEntry, error)
	Delete(ctx context.Context, userID int, id string) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, userID int, from, to time.Time, typ string) ([]models.ActivityEvent, error)
}

type Repository struct {
	Exercises ExerciseStore
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Exercises: NewExerciseSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
