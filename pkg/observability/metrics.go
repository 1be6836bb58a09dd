package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/statespace/pkg/domain"
)

// Namespace prefixes every metric name.
const Namespace = "statespace"

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	registry *prometheus.Registry

	Generations  *prometheus.CounterVec
	States       prometheus.Histogram
	Duration     prometheus.Histogram
	GateRejected *prometheus.CounterVec
	Exports      *prometheus.CounterVec
	ExportBytes  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "generations_total",
				Help:      "Total number of state space generations",
			},
			[]string{"result"},
		),
		States: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "states_generated",
			Help:      "Number of states per generation",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "generate_duration_seconds",
			Help:      "Duration of state space generation",
			Buckets:   prometheus.DefBuckets,
		}),
		GateRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "gate_rejections_total",
				Help:      "Gate issues that blanked a state space, by reason",
			},
			[]string{"reason"},
		),
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "exports_total",
				Help:      "Total number of exports",
			},
			[]string{"format", "cache"},
		),
		ExportBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "export_bytes_total",
				Help:      "Bytes produced by exports",
			},
			[]string{"format"},
		),
	}
	m.registry.MustRegister(m.Generations, m.States, m.Duration, m.GateRejected, m.Exports, m.ExportBytes)
	return m
}

// Registry exposes the private registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGenerate: func(_ context.Context, e *domain.GenerateEvent) {
			result := "ok"
			if e.States == 0 {
				result = "empty"
			}
			m.Generations.WithLabelValues(result).Inc()
			m.States.Observe(float64(e.States))
			m.Duration.Observe(e.Duration.Seconds())
		},
		OnGateRejected: func(_ context.Context, e *domain.GateEvent) {
			for _, reason := range e.Reasons {
				m.GateRejected.WithLabelValues(reason).Inc()
			}
		},
		OnExport: func(_ context.Context, e *domain.ExportEvent) {
			cache := "miss"
			if e.CacheHit {
				cache = "hit"
			}
			m.Exports.WithLabelValues(e.Format, cache).Inc()
			m.ExportBytes.WithLabelValues(e.Format).Add(float64(e.Bytes))
		},
	}
}
