package indexer

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counters exported by an Indexer.
type Metrics struct {
	events  *prometheus.CounterVec
	errors  prometheus.Counter
	height  prometheus.Gauge
	records prometheus.Gauge
}

// NewMetrics registers the indexer metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "escrow_indexer_events_total",
		Help: "Escrow transactions processed by the indexer",
	}, []string{"action"})

	errs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "escrow_indexer_errors_total",
		Help: "Events that could not be indexed",
	})

	height := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "escrow_indexer_height",
		Help: "Height of the last indexed transaction",
	})

	records := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "escrow_indexer_backfilled_records",
		Help: "Number of escrows loaded by the last backfill",
	})

	reg.MustRegister(events, errs, height, records)

	return &Metrics{
		events:  events,
		errors:  errs,
		height:  height,
		records: records,
	}
}

func (m *Metrics) incEvent(action string) {
	if m != nil {
		m.events.WithLabelValues(action).Inc()
	}
}

func (m *Metrics) incError() {
	if m != nil {
		m.errors.Inc()
	}
}

func (m *Metrics) setHeight(h int64) {
	if m != nil {
		m.height.Set(float64(h))
	}
}

func (m *Metrics) setRecords(n int) {
	if m != nil {
		m.records.Set(float64(n))
	}
}
