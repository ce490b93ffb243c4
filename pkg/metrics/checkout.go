package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout attempt outcomes.
type CheckoutMetrics struct {
	duration *prometheus.HistogramVec
	success  prometheus.Counter
	failure  *prometheus.CounterVec
	dropped  prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided
// registerer. A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"mode"})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_success_total",
		Help: "Successful order submissions.",
	})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failure_total",
		Help: "Failed checkout attempts by stage.",
	}, []string{"stage"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_dropped_total",
		Help: "Checkout invocations dropped because one was already in flight.",
	})
	reg.MustRegister(duration, success, failure, dropped)
	return &CheckoutMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		dropped:  dropped,
	}
}

// ObserveDuration records the wall time of an attempt for the given mode.
func (c *CheckoutMetrics) ObserveDuration(mode string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(mode)).Observe(duration.Seconds())
}

// IncSuccess counts a successful submission.
func (c *CheckoutMetrics) IncSuccess() {
	if c == nil || c.success == nil {
		return
	}
	c.success.Inc()
}

// IncFailure counts a failed attempt at the named stage (guard, reconcile,
// submit).
func (c *CheckoutMetrics) IncFailure(stage string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(stage)).Inc()
}

// IncDropped counts an invocation rejected by the in-flight guard.
func (c *CheckoutMetrics) IncDropped() {
	if c == nil || c.dropped == nil {
		return
	}
	c.dropped.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
