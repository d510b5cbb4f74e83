// Package sessionmetrics exports session host operation metrics to Prometheus.
//
//	collector := sessionmetrics.New(prometheus.DefaultRegisterer)
//	provider := sessionhost.NewProvider(store, cookies, sessionhost.WithObserver(collector))
package sessionmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/segsession/core/sessionhost"
)

const namespace = "segsession"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Collector counts and times session host operations.
type Collector struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

var _ sessionhost.Observer = (*Collector)(nil)

// New creates the collector and registers its metrics on reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "operations_total",
			Help:      "Total number of session host operations, by operation and result.",
		}, []string{"op", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "host",
			Name:      "operation_duration_seconds",
			Help:      "Duration of session host operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	reg.MustRegister(c.Operations, c.Duration)
	return c
}

// ObserveHostOp records one host operation.
func (c *Collector) ObserveHostOp(op string, err error, d time.Duration) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	c.Operations.WithLabelValues(op, result).Inc()
	c.Duration.WithLabelValues(op).Observe(d.Seconds())
}
