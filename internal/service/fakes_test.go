package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"wellness_tracker/internal/models"
	"wellness_tracker/internal/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory repository.ExerciseStore.
type memStore struct {
	mu        sync.Mutex
	exercises map[string]*models.Exercise
	order     []string

	appendErr   error
	appendCalls int
	listErr     error
}

func newMemStore() *memStore {
	return &memStore{exercises: make(map[string]*models.Exercise)}
}

var _ repository.ExerciseStore = (*memStore)(nil)

func (m *memStore) Get(_ context.Context, userID int, id string) (*models.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[id]
	if !ok || e.UserID != userID {
		return nil, nil
	}
	cp := *e
	cp.History = append([]models.HistoryEntry(nil), e.History...)
	return &cp, nil
}

func (m *memStore) List(ctx context.Context, userID int) ([]models.Exercise, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	ids := append([]string(nil), m.order...)
	m.mu.Unlock()

	out := []models.Exercise{}
	for _, id := range ids {
		if e, _ := m.Get(ctx, userID, id); e != nil {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memStore) Create(_ context.Context, e models.Exercise) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	m.exercises[e.ID] = &e
	m.order = append(m.order, e.ID)
	return e.ID, nil
}

func (m *memStore) Update(_ context.Context, userID int, id string, p models.ExercisePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[id]
	if !ok || e.UserID != userID {
		return repository.ErrExerciseNotFound
	}
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Timer != nil {
		e.Timer = *p.Timer
		e.DurationSeconds = p.Timer.EstimatedDuration()
	}
	return nil
}

func (m *memStore) ResetCompleted(_ context.Context, userID int, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[id]
	if !ok || e.UserID != userID {
		return repository.ErrExerciseNotFound
	}
	e.Completed = false
	return nil
}

func (m *memStore) AppendHistory(_ context.Context, exerciseID string, entry models.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendCalls++
	if m.appendErr != nil {
		return m.appendErr
	}
	e, ok := m.exercises[exerciseID]
	if !ok {
		return repository.ErrExerciseNotFound
	}
	entry.ID = uuid.NewString()
	e.History = append(e.History, entry)
	sort.SliceStable(e.History, func(i, j int) bool { return e.History[i].Date.Before(e.History[j].Date) })
	e.Completed = true
	e.TimesCompleted++
	return nil
}

func (m *memStore) History(ctx context.Context, userID int, id string) ([]models.HistoryEntry, error) {
	e, err := m.Get(ctx, userID, id)
	if err != nil || e == nil {
		return nil, err
	}
	return e.History, nil
}

func (m *memStore) Delete(_ context.Context, userID int, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[id]
	if !ok || e.UserID != userID {
		return repository.ErrExerciseNotFound
	}
	delete(m.exercises, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memStore) seed(userID int, name string, cfg models.TimerConfig) string {
	id, _ := m.Create(context.Background(), models.Exercise{UserID: userID, Name: name, Timer: cfg})
	return id
}

// recordingEventRepo keeps appended events in memory.
type recordingEventRepo struct {
	mu        sync.Mutex
	events    []models.ActivityEvent
	appendErr error
}

func (r *recordingEventRepo) Append(_ context.Context, e models.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.appendErr
}

func (r *recordingEventRepo) List(_ context.Context, userID int, _, _ time.Time, typ string) ([]models.ActivityEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ActivityEvent
	for _, e := range r.events {
		if e.UserID == userID && (typ == "" || e.Type == typ) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *recordingEventRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// manualScheduler fires registered callbacks only when told to.
type manualScheduler struct {
	mu   sync.Mutex
	fns  map[int]func()
	next int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{fns: make(map[int]func())}
}

func (m *manualScheduler) Every(_ time.Duration, fn func()) func() {
	m.mu.Lock()
	id := m.next
	m.next++
	m.fns[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.fns, id)
		m.mu.Unlock()
	}
}

func (m *manualScheduler) fire(n int) {
	for i := 0; i < n; i++ {
		m.mu.Lock()
		fns := make([]func(), 0, len(m.fns))
		for _, fn := range m.fns {
			fns = append(fns, fn)
		}
		m.mu.Unlock()
		for _, fn := range fns {
			fn()
		}
	}
}

func (m *manualScheduler) live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fns)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
