package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zhouzirui/exonizer/internal/model/humanize"
)

// Metrics groups the collectors exported by the backend.
type Metrics struct {
	gatherer prometheus.Gatherer

	submissions    *prometheus.CounterVec
	upstreamTime   *prometheus.HistogramVec
	rejectedInputs prometheus.Counter
	activeSessions prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exonizer_submissions_total",
				Help: "Humanize submissions by outcome",
			},
			[]string{"outcome"},
		),
		upstreamTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "exonizer_upstream_duration_seconds",
				Help:    "Latency of the humanize request",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		rejectedInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "exonizer_rejected_inputs_total",
			Help: "Input mutations dropped for exceeding the character limit",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "exonizer_active_sessions",
			Help: "Form sessions currently held in memory",
		}),
	}
	reg.MustRegister(m.submissions, m.upstreamTime, m.rejectedInputs, m.activeSessions)
	return m
}

// ObserveHumanize records one resolved humanize call.
func (m *Metrics) ObserveHumanize(kind humanize.Kind, elapsed time.Duration) {
	m.submissions.WithLabelValues(kind.String()).Inc()
	m.upstreamTime.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}

// InputRejected counts a dropped keystroke.
func (m *Metrics) InputRejected() {
	m.rejectedInputs.Inc()
}

// SessionsActive sets the live session gauge.
func (m *Metrics) SessionsActive(n int) {
	m.activeSessions.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
