package timer

import (
	"fmt"
	"sync"
	"time"

	"wellness_tracker/internal/models"
)

// EventKind tells subscribers what an Event carries.
type EventKind string

const (
	EventSnapshot  EventKind = "snapshot"
	EventCompleted EventKind = "completed"
)

// Event is published after every tick, transition and control operation.
// Completed events carry the history entry produced by the session.
type Event struct {
	Kind     EventKind            `json:"kind"`
	Snapshot models.Snapshot      `json:"snapshot"`
	Entry    *models.HistoryEntry `json:"entry,omitempty"`
}

// CompletionSink receives the history entry of a completed session.
// Submit must not block; persistence happens behind it.
type CompletionSink interface {
	Submit(exerciseID string, entry models.HistoryEntry)
}

// Option customizes an Engine.
type Option func(*Engine)

func WithScheduler(s Scheduler) Option    { return func(e *Engine) { e.sched = s } }
func WithClock(c Clock) Option            { return func(e *Engine) { e.clock = c } }
func WithCues(d CueDispatcher) Option     { return func(e *Engine) { e.cues = d } }
func WithSink(s CompletionSink) Option    { return func(e *Engine) { e.sink = s } }
func WithInterval(d time.Duration) Option { return func(e *Engine) { e.interval = d } }

type session struct {
	cfg       models.TimerConfig
	state     models.SessionState
	resumeTo  models.SessionState // logical state frozen by Pause
	remaining int
	series    int
	elapsed   int
	running   bool
}

func newSession(cfg models.TimerConfig) *session {
	return &session{
		cfg:       cfg,
		state:     models.StatePreparation,
		remaining: cfg.PrepSeconds,
		series:    1,
	}
}

// Engine is the interval timer of one exercise. At most one scheduled
// callback is alive at any time; every (re)schedule cancels the previous one.
type Engine struct {
	exerciseID string
	sched      Scheduler
	clock      Clock
	cues       CueDispatcher
	sink       CompletionSink
	interval   time.Duration

	mu     sync.Mutex
	cfg    models.TimerConfig
	sess   *session
	cancel func()
	gen    uint64

	subs    map[int]chan Event
	nextSub int
}

// New returns an idle engine in preparation for cfg. Nothing runs until Start.
func New(exerciseID string, cfg models.TimerConfig, opts ...Option) *Engine {
	e := &Engine{
		exerciseID: exerciseID,
		sched:      TickerScheduler{},
		clock:      systemClock{},
		interval:   DefaultInterval,
		subs:       make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cfg = models.NormalizeConfig(cfg)
	e.sess = newSession(e.cfg)
	return e
}

// TotalDuration is the number of ticks a session of cfg takes from start to completion.
// There is no rest after the final work interval.
func TotalDuration(cfg models.TimerConfig) int {
	c := models.NormalizeConfig(cfg)
	return c.PrepSeconds + c.SeriesCount*c.WorkSeconds + (c.SeriesCount-1)*c.RestSeconds
}

// ExerciseID returns the exercise this engine times.
func (e *Engine) ExerciseID() string { return e.exerciseID }

// Config returns the normalized config of the current session.
func (e *Engine) Config() models.TimerConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Snapshot returns the current session view. ok is false after Abandon.
func (e *Engine) Snapshot() (snap models.Snapshot, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return models.Snapshot{}, false
	}
	return e.snapshotLocked(), true
}

// Start begins a new session with cfg. It is a no-op while a session runs or after completion;
// a paused session is resumed instead. Reports whether anything changed.
func (e *Engine) Start(cfg models.TimerConfig) bool {
	e.mu.Lock()
	s := e.sess
	switch {
	case s != nil && s.running:
		e.mu.Unlock()
		return false
	case s != nil && s.state == models.StateCompleted:
		e.mu.Unlock()
		return false
	case s != nil && s.state == models.StatePaused:
		cues := e.resumeLocked()
		e.mu.Unlock()
		dispatchCues(e.cues, cues)
		return true
	}

	e.cfg = models.NormalizeConfig(cfg)
	e.sess = newSession(e.cfg)
	e.sess.running = true
	e.scheduleLocked()
	e.publishLocked(Event{Kind: EventSnapshot, Snapshot: e.snapshotLocked()})
	e.mu.Unlock()

	dispatchCues(e.cues, []CueKind{CueSessionStart})
	return true
}

// Pause freezes a running session. remainingSeconds is left untouched.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	s := e.sess
	if s == nil || !s.running {
		e.mu.Unlock()
		return false
	}
	e.stopLocked()
	s.resumeTo = s.state
	s.state = models.StatePaused
	s.running = false
	e.publishLocked(Event{Kind: EventSnapshot, Snapshot: e.snapshotLocked()})
	e.mu.Unlock()

	dispatchCues(e.cues, []CueKind{CuePause})
	return true
}

// Resume restarts a paused session from exactly where it was frozen.
func (e *Engine) Resume() bool {
	e.mu.Lock()
	if e.sess == nil || e.sess.state != models.StatePaused {
		e.mu.Unlock()
		return false
	}
	cues := e.resumeLocked()
	e.mu.Unlock()

	dispatchCues(e.cues, cues)
	return true
}

func (e *Engine) resumeLocked() []CueKind {
	s := e.sess
	s.state = s.resumeTo
	s.resumeTo = ""
	s.running = true
	e.scheduleLocked()
	e.publishLocked(Event{Kind: EventSnapshot, Snapshot: e.snapshotLocked()})
	return []CueKind{CueResume}
}

// Reset discards the current session and prepares a fresh, idle one with the same config.
// Nothing is written to history.
func (e *Engine) Reset() bool {
	e.mu.Lock()
	e.stopLocked()
	e.sess = newSession(e.cfg)
	e.publishLocked(Event{Kind: EventSnapshot, Snapshot: e.snapshotLocked()})
	e.mu.Unlock()

	dispatchCues(e.cues, []CueKind{CueReset})
	return true
}

// Abandon stops the timer and drops the session without recording anything.
// Subscribers are closed.
func (e *Engine) Abandon() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		return false
	}
	e.stopLocked()
	e.sess = nil
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
	return true
}

// Tick advances a running session by one second. The scheduler calls it;
// it is exported so callers can drive the engine without a clock.
func (e *Engine) Tick() {
	e.mu.Lock()
	e.tickLocked()
}

func (e *Engine) tickFrom(gen uint64) {
	e.mu.Lock()
	if gen != e.gen {
		// callback of a canceled schedule
		e.mu.Unlock()
		return
	}
	e.tickLocked()
}

// tickLocked expects e.mu held and releases it.
func (e *Engine) tickLocked() {
	s := e.sess
	if s == nil || !s.running {
		e.mu.Unlock()
		return
	}

	s.remaining--
	s.elapsed++

	var (
		cues  []CueKind
		entry *models.HistoryEntry
	)
	if s.remaining <= 0 {
		cues, entry = e.transitionLocked()
	} else if s.remaining <= warningSeconds {
		cues = append(cues, CueTickWarning)
	}

	e.publishLocked(Event{Kind: EventSnapshot, Snapshot: e.snapshotLocked()})
	if entry != nil {
		e.publishLocked(Event{Kind: EventCompleted, Snapshot: e.snapshotLocked(), Entry: entry})
	}
	e.mu.Unlock()

	dispatchCues(e.cues, cues)
	if entry != nil {
		e.submit(*entry)
	}
}

func (e *Engine) transitionLocked() ([]CueKind, *models.HistoryEntry) {
	s := e.sess
	switch s.state {
	case models.StatePreparation:
		s.state = models.StateWork
		s.remaining = s.cfg.WorkSeconds
		return []CueKind{CueEnterWork}, nil

	case models.StateWork:
		if s.series < s.cfg.SeriesCount {
			s.state = models.StateRest
			s.remaining = s.cfg.RestSeconds
			return []CueKind{CueEnterRest}, nil
		}
		return []CueKind{CueCompleted}, e.completeLocked()

	case models.StateRest:
		s.series++
		s.state = models.StateWork
		s.remaining = s.cfg.WorkSeconds
		return []CueKind{CueEnterWork}, nil
	}
	return nil, nil
}

func (e *Engine) completeLocked() *models.HistoryEntry {
	s := e.sess
	e.stopLocked()
	s.state = models.StateCompleted
	s.remaining = 0
	s.running = false

	return &models.HistoryEntry{
		ExerciseID:            e.exerciseID,
		Date:                  e.clock.Now(),
		ActualDurationSeconds: s.elapsed,
		Completed:             true,
		Notes:                 fmt.Sprintf("completed %d series", s.cfg.SeriesCount),
	}
}

func (e *Engine) submit(entry models.HistoryEntry) {
	if e.sink == nil {
		return
	}
	defer func() { _ = recover() }()
	e.sink.Submit(e.exerciseID, entry)
}

func (e *Engine) scheduleLocked() {
	e.stopLocked()
	gen := e.gen
	e.cancel = e.sched.Every(e.interval, func() { e.tickFrom(gen) })
}

func (e *Engine) stopLocked() {
	e.gen++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) snapshotLocked() models.Snapshot {
	s := e.sess
	progress := 0.0
	if total := TotalDuration(s.cfg); total > 0 {
		progress = float64(s.elapsed) / float64(total) * 100
		if progress > 100 {
			progress = 100
		}
	}
	return models.Snapshot{
		State:               s.state,
		RemainingSeconds:    s.remaining,
		CurrentSeries:       s.series,
		TotalElapsedSeconds: s.elapsed,
		SeriesCount:         s.cfg.SeriesCount,
		Running:             s.running,
		ProgressPercent:     progress,
	}
}

// Subscribe registers a listener with the given channel buffer. Events that do not fit
// in the buffer are dropped for that listener. The returned func unsubscribes.
func (e *Engine) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.sess == nil {
		close(ch)
		return ch, func() {}
	}
	id := e.nextSub
	e.nextSub++
	e.subs[id] = ch

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if c, ok := e.subs[id]; ok {
			close(c)
			delete(e.subs, id)
		}
	}
}

func (e *Engine) publishLocked(ev Event) {
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
