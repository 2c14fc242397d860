package service

import (
	"wellness_tracker/internal/logger"
	"wellness_tracker/internal/metrics"
	"wellness_tracker/internal/timer"
)

// cueRecorder is the server-side cue sink: clients play the sounds, the server logs and counts.
type cueRecorder struct {
	log        *logger.Logger
	metrics    *metrics.Manager
	exerciseID string
}

func newCueRecorder(log *logger.Logger, m *metrics.Manager, exerciseID string) cueRecorder {
	return cueRecorder{log: log, metrics: m, exerciseID: exerciseID}
}

func (r cueRecorder) Emit(kind timer.CueKind) error {
	r.metrics.CounterCues.WithLabelValues(string(kind)).Inc()
	if kind != timer.CueTickWarning {
		r.log.Debugw("timer_cue", "exercise_id", r.exerciseID, "cue", kind)
	}
	return nil
}
