// Package metrics provides Prometheus collectors for the record service
// and the backup manager.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RecordMetrics contains Prometheus metrics for record operations.
type RecordMetrics struct {
	operationsTotal         *prometheus.CounterVec
	operationDuration       *prometheus.HistogramVec
	validationFailuresTotal *prometheus.CounterVec
	tableRowsGauge          *prometheus.GaugeVec

	collectors []prometheus.Collector
}

// NewRecordMetrics creates and registers new record metrics.
func NewRecordMetrics(registry *prometheus.Registry) (*RecordMetrics, error) {
	m := &RecordMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *RecordMetrics) initMetrics() {
	m.operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_operations_total",
			Help: "Total number of record operations by entity, operation and status",
		},
		[]string{"entity", "operation", "status"},
	)
	m.operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "record_operation_duration_seconds",
			Help:    "Duration of record operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"entity", "operation"},
	)
	m.validationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "record_validation_failures_total",
			Help: "Total number of validation failures by entity and field",
		},
		[]string{"entity", "field"},
	)
	m.tableRowsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "record_table_rows",
			Help: "Current number of rows in each entity table",
		},
		[]string{"entity"},
	)

	m.collectors = []prometheus.Collector{
		m.operationsTotal,
		m.operationDuration,
		m.validationFailuresTotal,
		m.tableRowsGauge,
	}
}

// Describe implements prometheus.Collector.
func (m *RecordMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *RecordMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

// RecordOperation increments the operation counter.
func (m *RecordMetrics) RecordOperation(entity, operation, status string) {
	m.operationsTotal.WithLabelValues(entity, operation, status).Inc()
}

// ObserveOperationDuration records the duration of one operation.
func (m *RecordMetrics) ObserveOperationDuration(entity, operation string, seconds float64) {
	m.operationDuration.WithLabelValues(entity, operation).Observe(seconds)
}

// RecordValidationFailure increments the validation failure counter.
func (m *RecordMetrics) RecordValidationFailure(entity, field string) {
	m.validationFailuresTotal.WithLabelValues(entity, field).Inc()
}

// SetTableRows records the current row count of an entity table.
func (m *RecordMetrics) SetTableRows(entity string, rows int) {
	m.tableRowsGauge.WithLabelValues(entity).Set(float64(rows))
}
