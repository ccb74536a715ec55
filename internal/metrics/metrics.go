// Package metrics collects planning and search metrics on a private
// Prometheus registry.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/bitemp/internal/bitemporal"
)

const namespace = "bitemp"

// Metrics holds the collectors for one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PlansTotal         *prometheus.CounterVec
	SelectedPartitions prometheus.Histogram
	SearchDuration     *prometheus.HistogramVec
	SearchHits         *prometheus.HistogramVec
	VersionsWritten    *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PlansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "Query plans built, by decision-table branch.",
		}, []string{"branch"}),
		SelectedPartitions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_selected_partitions",
			Help:      "Partitions selected per plan.",
			Buckets:   []float64{1, 2, 3, 4},
		}),
		SearchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Shape index search latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"field"}),
		SearchHits: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_hits",
			Help:      "Versions returned per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 6),
		}, []string{"field"}),
		VersionsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "versions_written_total",
			Help:      "Record versions written, by field.",
		}, []string{"field"}),
	}

	m.registry.MustRegister(
		m.PlansTotal,
		m.SelectedPartitions,
		m.SearchDuration,
		m.SearchHits,
		m.VersionsWritten,
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObservePlan records the branch and selection size of p.
func (m *Metrics) ObservePlan(p *bitemporal.Plan) {
	if m == nil || p == nil {
		return
	}
	m.PlansTotal.WithLabelValues(p.Branch.String()).Inc()
	m.SelectedPartitions.Observe(float64(len(p.Selections)))
}

// ObserveSearch records one search over field.
func (m *Metrics) ObserveSearch(field string, d time.Duration, hits int) {
	if m == nil {
		return
	}
	m.SearchDuration.WithLabelValues(field).Observe(d.Seconds())
	m.SearchHits.WithLabelValues(field).Observe(float64(hits))
}

// ObserveWrite records one written version.
func (m *Metrics) ObserveWrite(field string) {
	if m == nil {
		return
	}
	m.VersionsWritten.WithLabelValues(field).Inc()
}

// WriteText writes every gathered family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
