package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"wellness_tracker/internal/logger"
	"wellness_tracker/internal/metrics"
	"wellness_tracker/internal/models"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/timer"

	"github.com/google/uuid"
)

const defaultHistoryBuffer = 64

// failure reasons, also used as metric labels
const (
	reasonBufferFull = "buffer_full"
	reasonStore      = "store_error"
)

var errHistoryBufferFull = errors.New("history buffer full")

type historyJob struct {
	userID     int
	exerciseID string
	entry      models.HistoryEntry
}

// HistoryWriter persists completed sessions off the timer's path. Entries that cannot be
// stored are logged, counted and recorded as HISTORY_PERSIST_FAILED events; they are not retried.
type HistoryWriter struct {
	store   repository.ExerciseStore
	events  repository.EventRepo
	log     *logger.Logger
	metrics *metrics.Manager

	jobs chan historyJob
	// in-flight failure reports for dropped entries
	reports sync.WaitGroup
}

func NewHistoryWriter(
	store repository.ExerciseStore,
	events repository.EventRepo,
	log *logger.Logger,
	m *metrics.Manager,
	buffer int,
) *HistoryWriter {
	if buffer < 1 {
		buffer = defaultHistoryBuffer
	}
	return &HistoryWriter{
		store:   store,
		events:  events,
		log:     log,
		metrics: m,
		jobs:    make(chan historyJob, buffer),
	}
}

// For returns the completion sink of one user's timers.
func (w *HistoryWriter) For(userID int) timer.CompletionSink {
	return userSink{w: w, userID: userID}
}

type userSink struct {
	w      *HistoryWriter
	userID int
}

func (s userSink) Submit(exerciseID string, entry models.HistoryEntry) {
	s.w.enqueue(historyJob{userID: s.userID, exerciseID: exerciseID, entry: entry})
}

func (w *HistoryWriter) enqueue(job historyJob) {
	w.metrics.CounterCompletions.Inc()
	w.metrics.HistSessionDurations.Observe(float64(job.entry.ActualDurationSeconds))

	select {
	case w.jobs <- job:
		w.metrics.GaugeHistoryBacklog.Inc()
	default:
		// never block the timer; report from a separate goroutine
		w.reports.Add(1)
		go func() {
			defer w.reports.Done()
			w.fail(context.Background(), job, reasonBufferFull, errHistoryBufferFull)
		}()
	}
}

// Run writes queued entries until ctx is canceled, then drains what is left.
func (w *HistoryWriter) Run(ctx context.Context) {
	defer w.reports.Wait()
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			return
		case job := <-w.jobs:
			w.persist(ctx, job)
		}
	}
}

func (w *HistoryWriter) drain(ctx context.Context) {
	for {
		select {
		case job := <-w.jobs:
			w.persist(ctx, job)
		default:
			return
		}
	}
}

func (w *HistoryWriter) persist(ctx context.Context, job historyJob) {
	w.metrics.GaugeHistoryBacklog.Dec()

	if err := w.store.AppendHistory(ctx, job.exerciseID, job.entry); err != nil {
		w.fail(ctx, job, reasonStore, err)
		return
	}

	w.log.Infow("session_completed",
		"user_id", job.userID,
		"exercise_id", job.exerciseID,
		"duration_s", job.entry.ActualDurationSeconds,
	)
	w.appendEvent(ctx, models.ActivityEvent{
		EventID:     uuid.NewString(),
		UserID:      job.userID,
		ExerciseID:  job.exerciseID,
		OccurredAt:  job.entry.Date.UTC(),
		Type:        models.EventCompleted,
		Description: job.entry.Notes,
		Metadata:    map[string]any{"duration_s": job.entry.ActualDurationSeconds},
	})
}

func (w *HistoryWriter) fail(ctx context.Context, job historyJob, reason string, err error) {
	w.metrics.CounterHistoryFailures.WithLabelValues(reason).Inc()
	w.log.Errorw("history_persist_failed",
		"err", err,
		"reason", reason,
		"user_id", job.userID,
		"exercise_id", job.exerciseID,
	)
	w.appendEvent(ctx, models.ActivityEvent{
		EventID:     uuid.NewString(),
		UserID:      job.userID,
		ExerciseID:  job.exerciseID,
		OccurredAt:  time.Now().UTC(),
		Type:        models.EventPersistFailed,
		Description: "Completed session could not be saved",
		Metadata: map[string]any{
			"reason":     reason,
			"error":      err.Error(),
			"date":       job.entry.Date.UTC(),
			"duration_s": job.entry.ActualDurationSeconds,
		},
	})
}

func (w *HistoryWriter) appendEvent(ctx context.Context, ev models.ActivityEvent) {
	if err := w.events.Append(ctx, ev); err != nil {
		w.log.Errorw("activity_event_append_failed", "err", err, "type", ev.Type, "exercise_id", ev.ExerciseID)
	}
}
