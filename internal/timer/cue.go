package timer

// CueKind names an audio/haptic cue tied to a timer event.
type CueKind string

const (
	CueSessionStart CueKind = "sessionStart"
	CueEnterWork    CueKind = "enterWork"
	CueEnterRest    CueKind = "enterRest"
	CuePause        CueKind = "pause"
	CueResume       CueKind = "resume"
	CueTickWarning  CueKind = "tickWarning"
	CueCompleted    CueKind = "completed"
	CueReset        CueKind = "reset"
)

// warningSeconds is how close to the end of a phase the tickWarning cue starts.
const warningSeconds = 3

// CueDispatcher plays cues. It is best-effort: errors and panics are ignored by the engine.
type CueDispatcher interface {
	Emit(kind CueKind) error
}

// CueFunc adapts a plain function to CueDispatcher.
type CueFunc func(kind CueKind) error

func (f CueFunc) Emit(kind CueKind) error { return f(kind) }

func dispatchCues(d CueDispatcher, kinds []CueKind) {
	if d == nil {
		return
	}
	for _, k := range kinds {
		dispatchCue(d, k)
	}
}

func dispatchCue(d CueDispatcher, k CueKind) {
	defer func() { _ = recover() }()
	_ = d.Emit(k)
}
