package utils

import (
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts transactions and measures their duration, labeled by
// message path, phase and result.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ ledger.Decorator = Metrics{}

// NewMetrics returns a Metrics decorator with its collectors registered in
// reg.
func NewMetrics(reg prometheus.Registerer) Metrics {
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Subsystem: "tx",
		Name:      "total",
		Help:      "Total number of processed transactions.",
	}, []string{"path", "phase", "result"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Subsystem: "tx",
		Name:      "duration_seconds",
		Help:      "Transaction processing duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path", "phase"})

	reg.MustRegister(total, duration)
	return Metrics{total: total, duration: duration}
}

func (m Metrics) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe(tx, "check", start, err)
	return res, err
}

func (m Metrics) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe(tx, "deliver", start, err)
	return res, err
}

func (m Metrics) observe(tx ledger.Tx, phase string, start time.Time, err error) {
	path := ledger.GetPath(tx)
	m.duration.WithLabelValues(path, phase).Observe(time.Since(start).Seconds())
	m.total.WithLabelValues(path, phase, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.ErrUnauthorized.Is(err):
		return "unauthorized"
	case errors.ErrAmount.Is(err):
		return "insufficient_funds"
	case errors.IsEnvironmentFailure(err):
		return "environment_failure"
	default:
		return "error"
	}
}
