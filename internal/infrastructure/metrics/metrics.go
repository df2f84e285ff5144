// Package metrics collects roster counters in a private Prometheus registry.
// There is no HTTP endpoint; the registry is dumped to a textfile on exit.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors the roster updates.
type Metrics struct {
	registry *prometheus.Registry

	mutations          *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	promptsAbandoned   prometheus.Counter
	saves              *prometheus.CounterVec
	saveDuration       prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_mutations_total",
				Help: "Successful roster changes by operation",
			},
			[]string{"op"},
		),
		validationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_validation_failures_total",
				Help: "Rejected input values by field",
			},
			[]string{"field"},
		),
		promptsAbandoned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "roster_prompts_abandoned_total",
				Help: "Operations abandoned after too many invalid attempts",
			},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roster_saves_total",
				Help: "Full rewrites of the roster file by result",
			},
			[]string{"result"},
		),
		saveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "roster_save_duration_seconds",
				Help:    "Time spent rewriting the roster file",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(m.mutations, m.validationFailures, m.promptsAbandoned, m.saves, m.saveDuration)
	return m
}

// Registry exposes the underlying registry as a Gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Mutation counts a successful add, update or delete.
func (m *Metrics) Mutation(op string) {
	m.mutations.WithLabelValues(op).Inc()
}

// ValidationFailure counts a rejected value for field.
func (m *Metrics) ValidationFailure(field string) {
	m.validationFailures.WithLabelValues(field).Inc()
}

// PromptAbandoned counts an operation given up after exhausting retries.
func (m *Metrics) PromptAbandoned() {
	m.promptsAbandoned.Inc()
}

// Save records one save attempt.
func (m *Metrics) Save(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(result).Inc()
	m.saveDuration.Observe(d.Seconds())
}

// WriteTextfile writes the registry in the text exposition format,
// atomically, to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
