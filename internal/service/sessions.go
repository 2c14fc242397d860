package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"wellness_tracker/internal/logger"
	"wellness_tracker/internal/metrics"
	"wellness_tracker/internal/models"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/timer"

	"github.com/google/uuid"
)

// ErrNoSession is returned when an exercise has no live session to control.
var ErrNoSession = errors.New("no active session")

type sessionKey struct {
	userID     int
	exerciseID string
}

// SessionService keeps one interval timer per (user, exercise) in memory.
type SessionService struct {
	store   repository.ExerciseStore
	events  repository.EventRepo
	writer  *HistoryWriter
	log     *logger.Logger
	metrics *metrics.Manager
	opts    []timer.Option

	mu      sync.Mutex
	engines map[sessionKey]*timer.Engine
}

func NewSessionService(store repository.ExerciseStore, events repository.EventRepo, writer *HistoryWriter, o Options) *SessionService {
	o.applyDefaults()
	opts := []timer.Option{timer.WithInterval(o.Tick)}
	if o.Scheduler != nil {
		opts = append(opts, timer.WithScheduler(o.Scheduler))
	}
	if o.Clock != nil {
		opts = append(opts, timer.WithClock(o.Clock))
	}
	return &SessionService{
		store:   store,
		events:  events,
		writer:  writer,
		log:     o.Log,
		metrics: o.Metrics,
		opts:    opts,
		engines: make(map[sessionKey]*timer.Engine),
	}
}

// Start begins a session with the exercise's stored timer. A paused session is resumed;
// a running or completed one is left alone.
func (s *SessionService) Start(ctx context.Context, userID int, exerciseID string) (SessionResult, error) {
	ex, err := s.store.Get(ctx, userID, exerciseID)
	if err != nil {
		return SessionResult{}, err
	}
	if ex == nil {
		return SessionResult{}, ErrExerciseNotFound
	}

	eng := s.engineFor(userID, exerciseID, ex.Timer)
	before, _ := eng.Snapshot()
	changed := eng.Start(ex.Timer)
	snap, _ := eng.Snapshot()

	if changed {
		if before.State == models.StatePaused {
			s.record(ctx, userID, exerciseID, "resume", models.EventResume, "Session resumed", snap)
		} else {
			s.record(ctx, userID, exerciseID, "start", models.EventSessionStart, "Session started for "+ex.Name, snap)
		}
	}
	return SessionResult{Snapshot: snap, Changed: changed}, nil
}

func (s *SessionService) Pause(ctx context.Context, userID int, exerciseID string) (SessionResult, error) {
	return s.control(ctx, userID, exerciseID, "pause", models.EventPause, "Session paused", (*timer.Engine).Pause)
}

func (s *SessionService) Resume(ctx context.Context, userID int, exerciseID string) (SessionResult, error) {
	return s.control(ctx, userID, exerciseID, "resume", models.EventResume, "Session resumed", (*timer.Engine).Resume)
}

// Reset returns the session to an idle preparation phase. Nothing is recorded in history.
func (s *SessionService) Reset(ctx context.Context, userID int, exerciseID string) (SessionResult, error) {
	return s.control(ctx, userID, exerciseID, "reset", models.EventReset, "Session reset", (*timer.Engine).Reset)
}

func (s *SessionService) control(
	ctx context.Context,
	userID int,
	exerciseID, op, eventType, description string,
	fn func(*timer.Engine) bool,
) (SessionResult, error) {
	eng, ok := s.lookup(userID, exerciseID)
	if !ok {
		return SessionResult{}, ErrNoSession
	}
	changed := fn(eng)
	snap, _ := eng.Snapshot()
	if changed {
		s.record(ctx, userID, exerciseID, op, eventType, description, snap)
	}
	return SessionResult{Snapshot: snap, Changed: changed}, nil
}

// Abandon stops the session and forgets it. Nothing is recorded in history.
func (s *SessionService) Abandon(ctx context.Context, userID int, exerciseID string) error {
	eng, ok := s.remove(userID, exerciseID)
	if !ok {
		return ErrNoSession
	}
	snap, _ := eng.Snapshot()
	if eng.Abandon() {
		s.record(ctx, userID, exerciseID, "abandon", models.EventAbandon, "Session abandoned", snap)
	}
	return nil
}

// Drop abandons a session without logging it.
func (s *SessionService) Drop(userID int, exerciseID string) {
	if eng, ok := s.remove(userID, exerciseID); ok {
		eng.Abandon()
	}
}

// Close abandons every live session.
func (s *SessionService) Close() {
	s.mu.Lock()
	engines := s.engines
	s.engines = make(map[sessionKey]*timer.Engine)
	s.metrics.GaugeActiveSessions.Set(0)
	s.mu.Unlock()

	for _, eng := range engines {
		eng.Abandon()
	}
}

// State returns the current snapshot of the exercise's session.
func (s *SessionService) State(userID int, exerciseID string) (models.Snapshot, error) {
	eng, ok := s.lookup(userID, exerciseID)
	if !ok {
		return models.Snapshot{}, ErrNoSession
	}
	snap, ok := eng.Snapshot()
	if !ok {
		return models.Snapshot{}, ErrNoSession
	}
	return snap, nil
}

// Subscribe streams the events of a live session.
func (s *SessionService) Subscribe(userID int, exerciseID string, buffer int) (<-chan timer.Event, func(), error) {
	eng, ok := s.lookup(userID, exerciseID)
	if !ok {
		return nil, nil, ErrNoSession
	}
	ch, cancel := eng.Subscribe(buffer)
	return ch, cancel, nil
}

func (s *SessionService) engineFor(userID int, exerciseID string, cfg models.TimerConfig) *timer.Engine {
	key := sessionKey{userID: userID, exerciseID: exerciseID}

	s.mu.Lock()
	defer s.mu.Unlock()
	if eng, ok := s.engines[key]; ok {
		return eng
	}

	opts := append([]timer.Option{
		timer.WithCues(newCueRecorder(s.log, s.metrics, exerciseID)),
		timer.WithSink(s.writer.For(userID)),
	}, s.opts...)
	eng := timer.New(exerciseID, cfg, opts...)
	s.engines[key] = eng
	s.metrics.GaugeActiveSessions.Set(float64(len(s.engines)))
	return eng
}

func (s *SessionService) lookup(userID int, exerciseID string) (*timer.Engine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	eng, ok := s.engines[sessionKey{userID: userID, exerciseID: exerciseID}]
	return eng, ok
}

func (s *SessionService) remove(userID int, exerciseID string) (*timer.Engine, bool) {
	key := sessionKey{userID: userID, exerciseID: exerciseID}

	s.mu.Lock()
	defer s.mu.Unlock()
	eng, ok := s.engines[key]
	if ok {
		delete(s.engines, key)
		s.metrics.GaugeActiveSessions.Set(float64(len(s.engines)))
	}
	return eng, ok
}

// record counts the operation and appends it to the activity log. Log failures are not fatal.
func (s *SessionService) record(ctx context.Context, userID int, exerciseID, op, eventType, description string, snap models.Snapshot) {
	s.metrics.CounterSessionOps.WithLabelValues(op).Inc()

	err := s.events.Append(ctx, models.ActivityEvent{
		EventID:     uuid.NewString(),
		UserID:      userID,
		ExerciseID:  exerciseID,
		OccurredAt:  time.Now().UTC(),
		Type:        eventType,
		Description: description,
		Metadata: map[string]any{
			"state":          snap.State,
			"remaining_s":    snap.RemainingSeconds,
			"current_series": snap.CurrentSeries,
			"elapsed_s":      snap.TotalElapsedSeconds,
		},
	})
	if err != nil {
		s.log.Errorw("session_event_append_failed", "err", fmt.Errorf("%s: %w", eventType, err), "exercise_id", exerciseID)
	}
}
