package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	refreshes *prometheus.CounterVec
	discards  *prometheus.CounterVec
	errors    *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// New registers the recorder on the default registry.
func New() *Recorder {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the recorder on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		refreshes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adpulse_dashboard_refreshes_total",
				Help: "Dashboard refreshes applied, by period and data source",
			},
			[]string{"period", "source"},
		),
		discards: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adpulse_stale_results_discarded_total",
				Help: "Results dropped because a newer request for the slot was started",
			},
			[]string{"slot"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "adpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

func (r *Recorder) RecordRefresh(period, source string) {
	r.refreshes.WithLabelValues(period, source).Inc()
}

func (r *Recorder) RecordDiscard(slot string) {
	r.discards.WithLabelValues(slot).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
