package monitoring

import (
	"sync"
	"time"
)

// Monitor collects lightweight runtime metrics for the JSON metrics endpoint
type Monitor struct {
	metrics      map[string]interface{}
	metricsMutex sync.RWMutex
	startTime    time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor() *Monitor {
	return &Monitor{
		metrics:   make(map[string]interface{}),
		startTime: time.Now(),
	}
}

// RecordMetric records a metric value
func (m *Monitor) RecordMetric(name string, value interface{}) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics[name] = value
}

// GetMetric returns a specific metric value
func (m *Monitor) GetMetric(name string) (interface{}, bool) {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()
	value, exists := m.metrics[name]
	return value, exists
}

// GetMetrics returns all current metrics
func (m *Monitor) GetMetrics() map[string]interface{} {
	m.metricsMutex.RLock()
	defer m.metricsMutex.RUnlock()

	// Create a copy to avoid concurrent map access
	metrics := make(map[string]interface{}, len(m.metrics))
	for k, v := range m.metrics {
		metrics[k] = v
	}

	// Add system metrics
	metrics["uptime_seconds"] = time.Since(m.startTime).Seconds()

	return metrics
}

// Reset clears all metrics
func (m *Monitor) Reset() {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()
	m.metrics = make(map[string]interface{})
}

// RecordBreakdown records the latest costing figures for a recipe along with
// rolling run counters
func (m *Monitor) RecordBreakdown(recipeID string, totalCost float64, flagCount int) {
	m.metricsMutex.Lock()
	defer m.metricsMutex.Unlock()

	prefix := "recipe_" + recipeID + "_"
	m.metrics[prefix+"total_cost"] = totalCost
	m.metrics[prefix+"flags"] = flagCount
	m.metrics[prefix+"last_costed"] = time.Now().Format(time.RFC3339)

	count, _ := m.metrics["breakdowns_computed"].(int)
	m.metrics["breakdowns_computed"] = count + 1
	if flagCount > 0 {
		flagged, _ := m.metrics["breakdowns_flagged"].(int)
		m.metrics["breakdowns_flagged"] = flagged + 1
	}
}
