package app

import (
	"time"

	"github.com/iov-one/gatekeeper/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects the engine statistics.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	events     prometheus.Counter
}

// NewMetrics creates the engine collectors and registers them with given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gatekeeper",
			Name:      "operations_total",
			Help:      "Number of processed operations by kind, path and result code.",
		}, []string{"kind", "path", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gatekeeper",
			Name:      "operation_duration_seconds",
			Help:      "Time spent processing an operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind", "path"}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gatekeeper",
			Name:      "events_published_total",
			Help:      "Number of published events.",
		}),
	}
	reg.MustRegister(m.operations, m.duration, m.events)
	return m
}

func (m *Metrics) observe(kind, path string, err error, start time.Time) {
	if m == nil {
		return
	}
	code := "0"
	if err != nil {
		code = itoa(errors.Code(err))
	}
	m.operations.WithLabelValues(kind, path, code).Inc()
	m.duration.WithLabelValues(kind, path).Observe(time.Since(start).Seconds())
}

func (m *Metrics) published(n int) {
	if m == nil {
		return
	}
	m.events.Add(float64(n))
}
