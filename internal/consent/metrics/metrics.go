package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for consent operations.
type Metrics struct {
	ConsentsGranted *prometheus.CounterVec
	ConsentsRevoked *prometheus.CounterVec
	ConsentsPurged  prometheus.Counter
	UpsertLatency   prometheus.Histogram
}

// New registers and returns consent metrics collectors.
func New() *Metrics {
	return &Metrics{
		ConsentsGranted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacy_consents_granted_total",
			Help: "Total number of consents granted, labeled by type",
		}, []string{"type"}),
		ConsentsRevoked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "privacy_consents_revoked_total",
			Help: "Total number of consents revoked, labeled by type",
		}, []string{"type"}),
		ConsentsPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "privacy_consents_purged_total",
			Help: "Total number of consent rows purged during account deletion",
		}),
		UpsertLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "privacy_consent_upsert_latency_seconds",
			Help:    "Latency of consent upsert operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementConsentsGranted(consentType string) {
	m.ConsentsGranted.WithLabelValues(consentType).Inc()
}

func (m *Metrics) IncrementConsentsRevoked(consentType string) {
	m.ConsentsRevoked.WithLabelValues(consentType).Inc()
}

func (m *Metrics) AddConsentsPurged(count float64) {
	m.ConsentsPurged.Add(count)
}

func (m *Metrics) ObserveUpsertLatency(durationSeconds float64) {
	m.UpsertLatency.Observe(durationSeconds)
}
