package http

import (
	"net/http"
	"time"

	"github.com/GriffinCanCode/ComposerOS/backend/internal/infrastructure/monitoring"
	"github.com/gin-gonic/gin"
)

// MetricsReporter serves a JSON view of the collector counters for
// dashboards that cannot scrape the Prometheus exposition format.
type MetricsReporter struct {
	metrics *monitoring.Metrics
}

// NewMetricsReporter creates a reporter over the shared collector
func NewMetricsReporter(metrics *monitoring.Metrics) *MetricsReporter {
	return &MetricsReporter{metrics: metrics}
}

// MetricsReport is a point-in-time snapshot of service metrics
type MetricsReport struct {
	Timestamp time.Time              `json:"timestamp"`
	Backend   map[string]interface{} `json:"backend"`
	Summary   MetricsSummary         `json:"summary"`
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests     int64   `json:"total_requests"`
	AverageLatencyMs  float64 `json:"average_latency_ms"`
	ErrorRate         float64 `json:"error_rate"`
	TotalCompositions int64   `json:"total_compositions"`
	AverageComposeMs  float64 `json:"average_compose_ms"`
	ActiveConnections int     `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// GetMetricsJSON returns the current metrics snapshot
func (mr *MetricsReporter) GetMetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, MetricsReport{
		Timestamp: time.Now(),
		Backend:   mr.backendMetrics(),
		Summary:   mr.calculateSummary(),
	})
}

// backendMetrics returns the raw counters
func (mr *MetricsReporter) backendMetrics() map[string]interface{} {
	snapshot := mr.metrics.GetSnapshot()
	uptime := mr.metrics.GetUptimeSeconds()

	return map[string]interface{}{
		"status":             "operational",
		"total_requests":     snapshot.TotalRequests,
		"total_errors":       snapshot.TotalErrors,
		"total_compositions": snapshot.TotalCompositions,
		"active_connections": snapshot.ActiveConnections,
		"uptime_seconds":     uptime,
	}
}

// calculateSummary computes derived metrics
func (mr *MetricsReporter) calculateSummary() MetricsSummary {
	snapshot := mr.metrics.GetSnapshot()
	uptime := mr.metrics.GetUptimeSeconds()

	// Calculate average latency
	var avgLatency float64
	if snapshot.RequestCount > 0 {
		avgLatency = (snapshot.TotalDuration / float64(snapshot.RequestCount)) * 1000 // Convert to ms
	}

	// Calculate error rate
	var errorRate float64
	if snapshot.TotalRequests > 0 {
		errorRate = float64(snapshot.TotalErrors) / float64(snapshot.TotalRequests)
	}

	// Calculate average composition time
	var avgCompose float64
	if snapshot.ComposeCount > 0 {
		avgCompose = (snapshot.ComposeDuration / float64(snapshot.ComposeCount)) * 1000
	}

	return MetricsSummary{
		TotalRequests:     snapshot.TotalRequests,
		AverageLatencyMs:  avgLatency,
		ErrorRate:         errorRate,
		TotalCompositions: snapshot.TotalCompositions,
		AverageComposeMs:  avgCompose,
		ActiveConnections: int(snapshot.ActiveConnections),
		UptimeSeconds:     uptime,
	}
}
