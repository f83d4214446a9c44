package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Composition metrics
	CompositionsTotal   *prometheus.CounterVec
	CompositionDuration *prometheus.HistogramVec
	CompositionStates   *prometheus.HistogramVec
	CompositionUtility  *prometheus.HistogramVec

	// Service call metrics (outbound collaborator calls)
	ServiceCalls    *prometheus.CounterVec
	ServiceDuration *prometheus.HistogramVec
	ServiceErrors   *prometheus.CounterVec

	// Ingest metrics
	IngestFiles    *prometheus.CounterVec
	IngestDuration *prometheus.HistogramVec

	// Annotation metrics
	AnnotationRuns     prometheus.Counter
	AnnotationServices prometheus.Counter
	AnnotationDuration prometheus.Histogram

	// Catalog metrics
	CatalogServices prometheus.Gauge
	CatalogRequests prometheus.Gauge
	SolutionCases   prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64
	TotalErrors       int64
	TotalCompositions int64
	ActiveConnections int64
	TotalDuration     float64 // sum of all request durations
	RequestCount      int64   // count for averaging
	ComposeDuration   float64 // sum of all composition durations
	ComposeCount      int64
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Composition metrics
		CompositionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_compositions_total",
				Help: "Total number of composition searches",
			},
			[]string{"algorithm", "status"},
		),
		CompositionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_composition_duration_seconds",
				Help:    "Composition search duration in seconds",
				Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15, 30, 60},
			},
			[]string{"algorithm"},
		),
		CompositionStates: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_composition_states_explored",
				Help:    "Number of states explored per composition search",
				Buckets: []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
			},
			[]string{"algorithm"},
		),
		CompositionUtility: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_composition_utility",
				Help:    "Bottleneck utility of successful compositions",
				Buckets: []float64{20, 40, 60, 80, 90, 100, 110, 120, 140, 160},
			},
			[]string{"algorithm"},
		),

		// Service call metrics
		ServiceCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_service_calls_total",
				Help: "Total number of service calls",
			},
			[]string{"service", "method", "status"},
		),
		ServiceDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_service_duration_seconds",
				Help:    "Service call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"service", "method"},
		),
		ServiceErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_service_errors_total",
				Help: "Total number of service errors",
			},
			[]string{"service", "method", "error_type"},
		),

		// Ingest metrics
		IngestFiles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_ingest_files_total",
				Help: "Total number of descriptor files processed",
			},
			[]string{"kind", "status"},
		),
		IngestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_ingest_duration_seconds",
				Help:    "Descriptor parse duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"kind"},
		),

		// Annotation metrics
		AnnotationRuns: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "backend_annotation_runs_total",
				Help: "Total number of annotation runs",
			},
		),
		AnnotationServices: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "backend_annotation_services_total",
				Help: "Total number of services annotated",
			},
		),
		AnnotationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "backend_annotation_duration_seconds",
				Help:    "Annotation run duration in seconds",
				Buckets: []float64{.01, .05, .1, .5, 1, 2.5, 5, 10, 30},
			},
		),

		// Catalog metrics
		CatalogServices: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_catalog_services",
				Help: "Number of services in the catalog",
			},
		),
		CatalogRequests: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_catalog_requests",
				Help: "Number of loaded composition requests",
			},
		),
		SolutionCases: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_solution_cases",
				Help: "Number of loaded reference solutions",
			},
		),

		// WebSocket metrics
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "backend_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// GetUptimeSeconds returns seconds since the metrics collector started
func (m *Metrics) GetUptimeSeconds() float64 {
	return time.Since(m.startTime).Seconds()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordComposition records a composition search
func (m *Metrics) RecordComposition(algorithm, status string, duration time.Duration, explored int, utility float64) {
	m.CompositionsTotal.WithLabelValues(algorithm, status).Inc()
	m.CompositionDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	m.CompositionStates.WithLabelValues(algorithm).Observe(float64(explored))
	if status == "success" {
		m.CompositionUtility.WithLabelValues(algorithm).Observe(utility)
	}

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalCompositions++
	m.snapshot.ComposeDuration += duration.Seconds()
	m.snapshot.ComposeCount++
	m.mu.Unlock()
}

// RecordServiceCall records a service call
func (m *Metrics) RecordServiceCall(service, method, status string, duration time.Duration) {
	m.ServiceCalls.WithLabelValues(service, method, status).Inc()
	m.ServiceDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// RecordServiceError records a service error
func (m *Metrics) RecordServiceError(service, method, errorType string) {
	m.ServiceErrors.WithLabelValues(service, method, errorType).Inc()
}

// RecordIngest records a processed descriptor file
func (m *Metrics) RecordIngest(kind, status string, duration time.Duration) {
	m.IngestFiles.WithLabelValues(kind, status).Inc()
	m.IngestDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordAnnotationRun records a completed annotation run
func (m *Metrics) RecordAnnotationRun(services int, duration time.Duration) {
	m.AnnotationRuns.Inc()
	m.AnnotationServices.Add(float64(services))
	m.AnnotationDuration.Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// SetCatalogServices sets the number of services in the catalog
func (m *Metrics) SetCatalogServices(count int) {
	m.CatalogServices.Set(float64(count))
}

// SetCatalogRequests sets the number of loaded requests
func (m *Metrics) SetCatalogRequests(count int) {
	m.CatalogRequests.Set(float64(count))
}

// SetSolutionCases sets the number of loaded reference solutions
func (m *Metrics) SetSolutionCases(count int) {
	m.SolutionCases.Set(float64(count))
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// GetSnapshot returns the current metric values
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
