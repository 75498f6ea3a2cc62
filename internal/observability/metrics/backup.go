package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BackupMetrics contains Prometheus metrics for table snapshots.
type BackupMetrics struct {
	snapshotsTotal    *prometheus.CounterVec
	snapshotSizeBytes *prometheus.HistogramVec

	collectors []prometheus.Collector
}

// NewBackupMetrics creates and registers new backup metrics.
func NewBackupMetrics(registry *prometheus.Registry) (*BackupMetrics, error) {
	m := &BackupMetrics{}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *BackupMetrics) initMetrics() {
	m.snapshotsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backup_snapshots_total",
			Help: "Total number of table snapshots by entity and status",
		},
		[]string{"entity", "status"},
	)
	m.snapshotSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backup_snapshot_size_bytes",
			Help:    "Size of written table snapshots in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"entity"},
	)

	m.collectors = []prometheus.Collector{
		m.snapshotsTotal,
		m.snapshotSizeBytes,
	}
}

// Describe implements prometheus.Collector.
func (m *BackupMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (m *BackupMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, c := range m.collectors {
		c.Collect(ch)
	}
}

// RecordSnapshot increments the snapshot counter.
func (m *BackupMetrics) RecordSnapshot(entity, status string) {
	m.snapshotsTotal.WithLabelValues(entity, status).Inc()
}

// ObserveSnapshotSize records the size of a written snapshot.
func (m *BackupMetrics) ObserveSnapshotSize(entity string, bytes int64) {
	m.snapshotSizeBytes.WithLabelValues(entity).Observe(float64(bytes))
}
