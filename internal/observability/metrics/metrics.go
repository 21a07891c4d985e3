// Package metrics exposes Prometheus instruments for page transitions, logins,
// waste entries and generative-model calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	obserrors "github.com/target/trash-classifier/internal/observability/errors"
)

// Result constants for metric labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

const namespace = "trash_classifier"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	logins      *prometheus.CounterVec
	entries     *prometheus.CounterVec
	generations *prometheus.CounterVec
	genDuration *prometheus.HistogramVec
	sessions    prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Page transitions applied, by event and target page.",
		}, []string{"event", "from", "to"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by role and result.",
		}, []string{"role", "result"}),
		entries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "industry",
			Name:      "entries_total",
			Help:      "Waste entry submissions by unit and result.",
		}, []string{"unit", "result"}),
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "genai",
			Name:      "requests_total",
			Help:      "Generative-model calls by kind, result and error class.",
		}, []string{"kind", "result", "error_class"}),
		genDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "genai",
			Name:      "request_duration_seconds",
			Help:      "Latency of generative-model calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9), // 250ms to ~64s
		}, []string{"kind"}),
		sessions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "created_total",
			Help:      "Sessions created since start.",
		}),
	}
}

// Transition counts one applied page transition.
func (m *Metrics) Transition(event, from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(event, from, to).Inc()
}

// Login counts one login attempt.
func (m *Metrics) Login(role string, ok bool) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(role, resultOf(ok)).Inc()
}

// Entry counts one waste entry submission.
func (m *Metrics) Entry(unit string, ok bool) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(unit, resultOf(ok)).Inc()
}

// SessionCreated counts a newly created session.
func (m *Metrics) SessionCreated() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

// GenerationMetric captures one generative-model call.
type GenerationMetric struct {
	Kind     string
	Result   string
	Duration time.Duration
	Err      error
}

// ObserveGeneration records the outcome and latency of a model call.
func (m *Metrics) ObserveGeneration(in GenerationMetric) {
	if m == nil {
		return
	}
	class := ""
	if in.Err != nil && in.Result == ResultError {
		class = obserrors.Classify(in.Err)
	}
	m.generations.WithLabelValues(in.Kind, in.Result, class).Inc()
	if in.Duration > 0 {
		m.genDuration.WithLabelValues(in.Kind).Observe(in.Duration.Seconds())
	}
}

func resultOf(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultError
}
