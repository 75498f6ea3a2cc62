// Package observability wires the Prometheus metric collectors used
// across the record pipeline.
package observability

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecoparque/residuos-go/internal/observability/metrics"
)

// Metrics holds all the metric collectors.
type Metrics struct {
	registry *prometheus.Registry

	Records *metrics.RecordMetrics
	Backup  *metrics.BackupMetrics
}

// NewMetrics creates a new instance of Metrics, initializing all
// metric collectors against a fresh registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	recordMetrics, err := metrics.NewRecordMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("creating record metrics: %w", err)
	}
	backupMetrics, err := metrics.NewBackupMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("creating backup metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Records:  recordMetrics,
		Backup:   backupMetrics,
	}, nil
}

// Handler returns an HTTP handler serving the registry in the
// Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
