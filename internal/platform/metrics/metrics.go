// Package metrics registers all Prometheus metrics for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	TopUpsTotal       prometheus.Counter
	DebitsTotal       prometheus.Counter
	BalanceRupees     prometheus.Gauge
	LookupsTotal      *prometheus.CounterVec
	FetchDurationMs   prometheus.Histogram
	ExportsTotal      prometheus.Counter
	DocumentsRendered prometheus.Counter
}

// Lookup outcome label values.
const (
	OutcomeCacheHit     = "cache_hit"
	OutcomeBilled       = "billed"
	OutcomeFetchFailed  = "fetch_failed"
	OutcomeInsufficient = "insufficient_balance"
	OutcomeInvalid      = "invalid_format"
)

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		TopUpsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rcvault_topups_total",
			Help: "Total number of successful wallet top-ups",
		}),
		DebitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rcvault_debits_total",
			Help: "Total number of successful billed lookups debited",
		}),
		BalanceRupees: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rcvault_balance_rupees",
			Help: "Current wallet balance after the last mutation",
		}),
		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "rcvault_lookups_total",
			Help: "RC lookups by outcome",
		}, []string{"outcome"}),
		FetchDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rcvault_rc_fetch_duration_ms",
			Help:    "Latency of upstream RC fetches in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
		ExportsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rcvault_csv_exports_total",
			Help: "Total number of transaction CSV exports",
		}),
		DocumentsRendered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rcvault_documents_rendered_total",
			Help: "Total number of RC documents rendered",
		}),
	}
}
