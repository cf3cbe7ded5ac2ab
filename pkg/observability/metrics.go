package observability

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors fed by engine lifecycle hooks.
type Metrics struct {
	Steps     prometheus.Counter
	Halts     *prometheus.CounterVec
	TapeCells prometheus.Histogram
	RunSteps  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_steps_total",
			Help: "Total number of transitions applied across all runs",
		}),
		Halts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_halts_total",
				Help: "Total number of halted runs by reason",
			},
			[]string{"reason"},
		),
		TapeCells: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_tape_cells",
			Help:    "Non-blank tape cells at halt",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		RunSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_run_steps",
			Help:    "Steps taken by a run before it halted",
			Buckets: prometheus.ExponentialBuckets(1, 10, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.Steps, m.Halts, m.TapeCells, m.RunSteps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(_ context.Context, _ *domain.StepEvent) {
			m.Steps.Inc()
		},
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			m.Halts.WithLabelValues(string(e.Reason)).Inc()
			m.TapeCells.Observe(float64(e.TapeCells))
			m.RunSteps.Observe(float64(e.Step))
		},
	}
}
