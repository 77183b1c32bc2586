package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for data request processing.
type Metrics struct {
	RequestsCreated   *prometheus.CounterVec
	RequestsCancelled prometheus.Counter
	ExportsCompleted  prometheus.Counter
	ExportsFailed     prometheus.Counter
	DeletionsCompleted prometheus.Counter
	DeletionsFailed   prometheus.Counter
	SweepProcessed    *prometheus.CounterVec
	SweepDuration     *prometheus.HistogramVec
}

// New registers and returns request metrics collectors.
func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacy_data_requests_created_total",
			Help: "Total number of data requests created, labeled by type",
		}, []string{"type"}),
		RequestsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacy_deletion_requests_cancelled_total",
			Help: "Total number of deletion requests cancelled during cooling-off",
		}),
		ExportsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacy_exports_completed_total",
			Help: "Total number of export bundles generated",
		}),
		ExportsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacy_exports_failed_total",
			Help: "Total number of export pipeline failures",
		}),
		DeletionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacy_deletions_completed_total",
			Help: "Total number of completed account deletions",
		}),
		DeletionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacy_deletions_failed_total",
			Help: "Total number of deletion pipeline failures",
		}),
		SweepProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacy_sweep_items_processed_total",
			Help: "Total number of items processed per sweep",
		}, []string{"sweep"}),
		SweepDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "privacy_sweep_duration_seconds",
			Help:    "Duration of sweep runs in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"sweep"}),
	}
}

func (m *Metrics) IncrementRequestsCreated(requestType string) {
	m.RequestsCreated.WithLabelValues(requestType).Inc()
}

func (m *Metrics) IncrementRequestsCancelled() {
	m.RequestsCancelled.Inc()
}

func (m *Metrics) IncrementExportsCompleted() {
	m.ExportsCompleted.Inc()
}

func (m *Metrics) IncrementExportsFailed() {
	m.ExportsFailed.Inc()
}

func (m *Metrics) IncrementDeletionsCompleted() {
	m.DeletionsCompleted.Inc()
}

func (m *Metrics) IncrementDeletionsFailed() {
	m.DeletionsFailed.Inc()
}

func (m *Metrics) AddSweepProcessed(sweep string, count float64) {
	m.SweepProcessed.WithLabelValues(sweep).Add(count)
}

func (m *Metrics) ObserveSweepDuration(sweep string, durationSeconds float64) {
	m.SweepDuration.WithLabelValues(sweep).Observe(durationSeconds)
}
