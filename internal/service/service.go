package service

import (
	"context"
	"time"

	"wellness_tracker/internal/logger"
	"wellness_tracker/internal/metrics"
	"wellness_tracker/internal/models"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/timer"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Exercises manages a user's exercise list.
type Exercises interface {
	Create(ctx context.Context, userID int, in ExerciseInput) (models.Exercise, error)
	Get(ctx context.Context, userID int, id string) (models.Exercise, error)
	List(ctx context.Context, userID int) ([]models.Exercise, error)
	Update(ctx context.Context, userID int, id string, patch models.ExercisePatch) (models.Exercise, error)
	Delete(ctx context.Context, userID int, id string) error
	Reset(ctx context.Context, userID int, id string) error
	History(ctx context.Context, userID int, id string) ([]models.HistoryEntry, error)
}

// Sessions controls the interval timers of running exercises.
type Sessions interface {
	Start(ctx context.Context, userID int, exerciseID string) (SessionResult, error)
	Pause(ctx context.Context, userID int, exerciseID string) (SessionResult, error)
	Resume(ctx context.Context, userID int, exerciseID string) (SessionResult, error)
	Reset(ctx context.Context, userID int, exerciseID string) (SessionResult, error)
	Abandon(ctx context.Context, userID int, exerciseID string) error
	State(userID int, exerciseID string) (models.Snapshot, error)
	Subscribe(userID int, exerciseID string, buffer int) (<-chan timer.Event, func(), error)
}

// Statistics exposes the adherence summary.
type Statistics interface {
	Summary(ctx context.Context, userID int) (models.Statistics, error)
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, userID int, f LogFilter) ([]models.ActivityEvent, error)
}

// Templates is the read-only catalog of starter exercises.
type Templates interface {
	List() []models.Template
	Instantiate(ctx context.Context, userID int, templateID string) (models.Exercise, error)
}

// Service aggregates all sub-services.
type Service struct {
	Exercises
	Sessions
	Statistics
	EventLog
	Templates
	Authorization

	// HistoryWriter must be Run for completed sessions to reach the store.
	HistoryWriter *HistoryWriter
}

// Options carries the non-repository dependencies of the services.
type Options struct {
	Log           *logger.Logger
	Metrics       *metrics.Manager
	SigningKey    string
	TokenTTL      time.Duration
	Tick          time.Duration
	HistoryBuffer int
	Catalog       []models.Template

	// tests replace these
	Scheduler timer.Scheduler
	Clock     timer.Clock
}

func (o *Options) applyDefaults() {
	if o.Log == nil {
		o.Log = logger.NewNop()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.NewTestManager()
	}
	if o.Tick <= 0 {
		o.Tick = timer.DefaultInterval
	}
	if o.HistoryBuffer < 1 {
		o.HistoryBuffer = defaultHistoryBuffer
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = defaultTokenTTL
	}
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, opts Options) *Service {
	opts.applyDefaults()

	writer := NewHistoryWriter(repos.Exercises, repos.EventRepo, opts.Log, opts.Metrics, opts.HistoryBuffer)
	sessions := NewSessionService(repos.Exercises, repos.EventRepo, writer, opts)
	exercises := NewExerciseService(repos.Exercises, sessions)

	return &Service{
		Exercises:     exercises,
		Sessions:      sessions,
		Statistics:    NewStatisticsService(repos.Exercises, opts.Clock),
		EventLog:      NewEventLogService(repos.EventRepo),
		Templates:     NewTemplateService(opts.Catalog, exercises),
		Authorization: NewAuthService(repos.Auth, opts.SigningKey, opts.TokenTTL),
		HistoryWriter: writer,
	}
}

// Close stops every live session. Entries already handed to the HistoryWriter are still written.
func (s *Service) Close() {
	if c, ok := s.Sessions.(interface{ Close() }); ok {
		c.Close()
	}
}
