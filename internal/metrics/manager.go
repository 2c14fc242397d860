package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests        *prometheus.CounterVec
	CounterCues            *prometheus.CounterVec
	CounterSessionOps      *prometheus.CounterVec
	CounterCompletions     prometheus.Counter
	CounterHistoryFailures *prometheus.CounterVec

	// gauges
	GaugeActiveSessions prometheus.Gauge
	GaugeHistoryBacklog prometheus.Gauge

	// histograms
	HistRequestDuration  *prometheus.HistogramVec
	HistSessionDurations prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("wellness", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("wellness", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "route", "status"})
	counterCues := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "timer_cues",
		Help:      "The total number of cues emitted by interval timers",
	}, []string{"kind"})
	counterSessionOps := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "session_operations",
		Help:      "Session control operations that changed a session",
	}, []string{"op"})
	counterCompletions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_completed",
		Help:      "The total number of completed sessions",
	})
	counterHistoryFailures := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "history_persist_failures",
		Help:      "History entries that could not be stored",
	}, []string{"reason"})

	gaugeActiveSessions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory",
	})
	gaugeHistoryBacklog := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "history_backlog",
		Help:      "History entries waiting to be written",
	})

	histReqDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			Name:      "request_duration_seconds",
			Help:      "Total duration of requests in seconds",
		},
		[]string{"route"},
	)
	histSessionDurations := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{30, 60, 120, 300, 600, 900, 1800, 3600},
			Name:      "session_duration_seconds",
			Help:      "Actual duration of completed sessions",
		},
	)

	return &Manager{
		CounterRequests:        counterRequests,
		CounterCues:            counterCues,
		CounterSessionOps:      counterSessionOps,
		CounterCompletions:     counterCompletions,
		CounterHistoryFailures: counterHistoryFailures,
		GaugeActiveSessions:    gaugeActiveSessions,
		GaugeHistoryBacklog:    gaugeHistoryBacklog,
		HistRequestDuration:    histReqDuration,
		HistSessionDurations:   histSessionDurations,
	}
}
