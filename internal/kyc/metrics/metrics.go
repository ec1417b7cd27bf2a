package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the KYC pipeline.
type Metrics struct {
	SubmissionsCreated prometheus.Counter
	ReviewTransitions  *prometheus.CounterVec
	StatusCacheHits    prometheus.Counter
	StatusCacheMisses  prometheus.Counter
	StatusDegraded     prometheus.Counter
}

// New creates and registers all KYC metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veriportal_kyc_submissions_total",
			Help: "Total number of KYC submissions appended to the ledger",
		}),
		ReviewTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veriportal_kyc_review_transitions_total",
			Help: "Review transitions by outcome, including no-pending misses",
		}, []string{"outcome"}),
		StatusCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veriportal_kyc_status_cache_hits_total",
			Help: "Status reads served from the cache",
		}),
		StatusCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veriportal_kyc_status_cache_misses_total",
			Help: "Status reads that fell through to the ledger",
		}),
		StatusDegraded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veriportal_kyc_status_degraded_total",
			Help: "Status reads degraded to unknown because the ledger was unreachable",
		}),
	}
}

func (m *Metrics) IncSubmissions() {
	if m == nil {
		return
	}
	m.SubmissionsCreated.Inc()
}

func (m *Metrics) IncReview(outcome string) {
	if m == nil {
		return
	}
	m.ReviewTransitions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.StatusCacheHits.Inc()
}

func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.StatusCacheMisses.Inc()
}

func (m *Metrics) IncDegraded() {
	if m == nil {
		return
	}
	m.StatusDegraded.Inc()
}
