package seed

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/articora-seed/internal/repo"
)

// Metrics records per-row insert outcomes and phase durations on a private
// registry. A nil *Metrics is valid and records nothing.
//
// Labels:
//
//   - phase:   generator phase name (users, sources, ratings, ...)
//   - table:   target table
//   - outcome: inserted|conflict|failed
type Metrics struct {
	Registry *prometheus.Registry

	rows     *prometheus.CounterVec
	phaseDur *prometheus.HistogramVec
}

// NewMetrics builds the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "articora_seed_rows_total",
				Help: "Rows attempted by the seeder, by phase, table and outcome.",
			},
			[]string{"phase", "table", "outcome"},
		),
		phaseDur: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "articora_seed_phase_duration_seconds",
				Help:    "Wall time of each seeding phase in seconds.",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"phase"},
		),
	}
	m.Registry.MustRegister(m.rows, m.phaseDur)
	return m
}

// Row counts one insert outcome.
func (m *Metrics) Row(phase, table string, o repo.Outcome) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(phase, table, o.String()).Inc()
}

// ObservePhase records how long a phase ran.
func (m *Metrics) ObservePhase(phase string, d time.Duration) {
	if m == nil {
		return
	}
	m.phaseDur.WithLabelValues(phase).Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
