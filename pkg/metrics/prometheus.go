package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analyses    *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	barsFetched *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New registers the analysis metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocklens_analysis_requests_total",
				Help: "Total number of analysis requests by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocklens_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		barsFetched: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocklens_bars_fetched_total",
				Help: "Daily bars received from market data providers",
			},
			[]string{"provider"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocklens_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnalysis counts a finished analysis.
func (r *Recorder) RecordAnalysis(kind, outcome string) {
	r.analyses.WithLabelValues(kind, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordBarsFetched(provider string, n int) {
	r.barsFetched.WithLabelValues(provider).Add(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
