// Package prometheus records tutor request metrics with the Prometheus
// client library.
package prometheus

import (
	"time"

	"github.com/fwojciec/lingua"
	"github.com/fwojciec/lingua/tutor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Interface compliance check.
var _ tutor.Metrics = (*Metrics)(nil)

const namespace = "lingua"

// Metrics groups the Prometheus instruments for tutor requests.
type Metrics struct {
	InFlight prometheus.Gauge
	Turns    *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Deltas   prometheus.Histogram
}

// NewMetrics registers the instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "turns_in_flight",
			Help:      "Requests currently streaming.",
		}),
		Turns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Finished requests by outcome.",
		}, []string{"outcome"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Time from send to outcome.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"outcome"}),
		Deltas: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_deltas",
			Help:      "Text deltas received per request.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

// TurnStarted marks a request as streaming.
func (m *Metrics) TurnStarted() {
	m.InFlight.Inc()
}

// TurnFinished records the outcome of a request.
func (m *Metrics) TurnFinished(kind lingua.OutcomeKind, elapsed time.Duration, deltas int) {
	m.InFlight.Dec()
	m.Turns.WithLabelValues(kind.String()).Inc()
	m.Duration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
	m.Deltas.Observe(float64(deltas))
}
