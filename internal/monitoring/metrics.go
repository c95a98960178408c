package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mise/internal/costing"
)

// MetricsCollector handles engine metrics collection and reporting
type MetricsCollector struct {
	registry *prometheus.Registry
	metrics  map[string]prometheus.Collector
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	breakdownDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "costing_breakdown_duration_seconds",
			Help:    "Time taken to compute recipe cost breakdowns",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"category"},
	)

	breakdownsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costing_breakdowns_total",
			Help: "Cost breakdowns computed, by outcome",
		},
		[]string{"outcome"},
	)

	flagsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costing_flags_total",
			Help: "Diagnostic flags raised during costing, by kind",
		},
		[]string{"kind"},
	)

	snapshotsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "costing_history_snapshots_total",
			Help: "Cost history snapshots recorded",
		},
	)

	// Create metrics map
	metrics := map[string]prometheus.Collector{
		"breakdown_duration": breakdownDuration,
		"breakdowns":         breakdownsTotal,
		"flags":              flagsTotal,
		"history_snapshots":  snapshotsTotal,
	}

	// Register metrics
	for _, metric := range metrics {
		registry.MustRegister(metric)
	}

	return &MetricsCollector{
		registry: registry,
		metrics:  metrics,
	}
}

// Registry exposes the underlying registry for the metrics endpoint
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// RecordBreakdown records one engine run: how long it took, whether it came
// back clean, and which diagnostics it raised
func (mc *MetricsCollector) RecordBreakdown(category string, duration time.Duration, flags []costing.Flag) {
	if category == "" {
		category = "uncategorized"
	}
	if histogram, ok := mc.metrics["breakdown_duration"].(*prometheus.HistogramVec); ok {
		histogram.WithLabelValues(category).Observe(duration.Seconds())
	}
	if counter, ok := mc.metrics["breakdowns"].(*prometheus.CounterVec); ok {
		outcome := "clean"
		if len(flags) > 0 {
			outcome = "flagged"
		}
		counter.WithLabelValues(outcome).Inc()
	}
	if counter, ok := mc.metrics["flags"].(*prometheus.CounterVec); ok {
		for _, f := range flags {
			counter.WithLabelValues(string(f.Kind)).Inc()
		}
	}
}

// RecordHistorySnapshot counts a recorded cost snapshot
func (mc *MetricsCollector) RecordHistorySnapshot() {
	if counter, ok := mc.metrics["history_snapshots"].(prometheus.Counter); ok {
		counter.Inc()
	}
}
