package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// report lifecycle and the derived-view worker.
type Metrics struct {
	ReportsSubmitted    prometheus.Counter
	SubmissionsRejected *prometheus.CounterVec // labels: reason={validation,rate_limit}
	ReportTransitions   *prometheus.CounterVec // labels: outcome={validated,rejected,conflict}
	PointsAwarded       prometheus.Counter
	CertificatesIssued  prometheus.Counter
	HotZoneClusters     prometheus.Gauge
	SnapshotRefreshSecs prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ReportsSubmitted,
		m.SubmissionsRejected,
		m.ReportTransitions,
		m.PointsAwarded,
		m.CertificatesIssued,
		m.HotZoneClusters,
		m.SnapshotRefreshSecs,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so parallel
// tests never hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ReportsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinela",
			Name:      "reports_submitted_total",
			Help:      "Total reports accepted for validation.",
		}),
		SubmissionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinela",
			Name:      "submissions_rejected_total",
			Help:      "Submissions refused before persistence, by reason.",
		}, []string{"reason"}),
		ReportTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sentinela",
			Name:      "report_transitions_total",
			Help:      "Administrator transitions applied to pending reports, by outcome.",
		}, []string{"outcome"}),
		PointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinela",
			Name:      "points_awarded_total",
			Help:      "Total points credited to contributors through validations.",
		}),
		CertificatesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sentinela",
			Name:      "certificates_issued_total",
			Help:      "Certificate upserts, including idempotent re-issues.",
		}),
		HotZoneClusters: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sentinela",
			Name:      "hot_zone_clusters",
			Help:      "Cluster count in the latest hot-zone snapshot.",
		}),
		SnapshotRefreshSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sentinela",
			Name:      "snapshot_refresh_duration_seconds",
			Help:      "Duration of a derived-view refresh cycle.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
		}),
	}
}
