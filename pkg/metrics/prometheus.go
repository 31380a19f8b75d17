// Package metrics provides Prometheus metrics for the wordboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Outcome label values for store operations.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	aiBuckets       []float64
	refreshInterval time.Duration
	constLabels     map[string]string
	registry        prometheus.Registerer

	// Business metrics
	vocabsTotal   prometheus.Gauge
	scoresTotal   prometheus.Gauge
	bulkWords     *prometheus.CounterVec
	scoresDeleted prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Store metrics
	storeOps     *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec

	// AI passthrough metrics
	aiRequests *prometheus.CounterVec
	aiLatency  prometheus.Histogram

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "wordboard",
		subsystem:       "api",
		latencyBuckets:  []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		aiBuckets:       []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// RefreshInterval reports how often gauge metrics should be refreshed.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.vocabsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "vocabs_total",
		Help: "Number of stored vocabulary entries",
	})
	m.scoresTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "scores_total",
		Help: "Number of stored high score entries",
	})
	m.bulkWords = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "bulk_words_total",
		Help: "Words seen by bulk imports, by result",
	}, []string{"result"})
	m.scoresDeleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "scores_deleted_total",
		Help: "High score entries removed by owner deletion",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.latencyBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "errors_by_endpoint_total",
		Help: "Error responses by endpoint, method and error code",
	}, []string{"endpoint", "method", "error_type"})

	m.storeOps = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "store_operations_total",
		Help: "Store operations by store, operation and outcome",
	}, []string{"store", "op", "outcome"})
	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "store_latency_milliseconds",
		Help:    "Store operation latency in milliseconds",
		Buckets: m.latencyBuckets,
	}, []string{"store", "op"})

	m.aiRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name: "ai_requests_total",
		Help: "Generative model calls by resulting status code",
	}, []string{"status_code"})
	m.aiLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: labels,
		Name:    "ai_latency_milliseconds",
		Help:    "Generative model call latency in milliseconds",
		Buckets: m.aiBuckets,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name: "memory_usage_bytes",
		Help: "Heap memory in use in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name: "goroutine_count",
		Help: "Number of goroutines",
	})
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: "system", ConstLabels: labels,
		Name:    "gc_pause_milliseconds",
		Help:    "Most recent GC pause in milliseconds",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
	})
}

// UpdateTotals sets the stored entry gauges.
func (m *Manager) UpdateTotals(vocabs, scores int) {
	m.vocabsTotal.Set(float64(vocabs))
	m.scoresTotal.Set(float64(scores))
}

// RecordBulkImport counts inserted and skipped words of one bulk import.
func (m *Manager) RecordBulkImport(inserted, skipped int) {
	m.bulkWords.WithLabelValues("inserted").Add(float64(inserted))
	m.bulkWords.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordScoresDeleted adds n removed score entries.
func (m *Manager) RecordScoresDeleted(n int64) {
	if n > 0 {
		m.scoresDeleted.Add(float64(n))
	}
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error response.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordStoreOp records one store call.
func (m *Manager) RecordStoreOp(store, op, outcome string, latencyMs float64) {
	m.storeOps.WithLabelValues(store, op, outcome).Inc()
	m.storeLatency.WithLabelValues(store, op).Observe(latencyMs)
}

// RecordAIRequest records one generative model call.
func (m *Manager) RecordAIRequest(statusCode string, latencyMs float64) {
	m.aiRequests.WithLabelValues(statusCode).Inc()
	m.aiLatency.Observe(latencyMs)
}

// UpdateSystem sets the runtime gauges and observes the last GC pause.
func (m *Manager) UpdateSystem(heapBytes uint64, goroutines int, lastPauseMs float64) {
	m.systemMemoryUsage.Set(float64(heapBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	m.systemGCPauseTime.Observe(lastPauseMs)
}

// Global helpers delegate to the process wide manager.

// RefreshInterval reports the global refresh interval.
func RefreshInterval() time.Duration { return globalManager.RefreshInterval() }

// UpdateTotals sets the stored entry gauges.
func UpdateTotals(vocabs, scores int) { globalManager.UpdateTotals(vocabs, scores) }

// RecordBulkImport counts inserted and skipped words of one bulk import.
func RecordBulkImport(inserted, skipped int) { globalManager.RecordBulkImport(inserted, skipped) }

// RecordScoresDeleted adds n removed score entries.
func RecordScoresDeleted(n int64) { globalManager.RecordScoresDeleted(n) }

// RecordHTTPRequest records an HTTP request and its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByEndpoint records an error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// RecordStoreOp records one store call.
func RecordStoreOp(store, op, outcome string, latencyMs float64) {
	globalManager.RecordStoreOp(store, op, outcome, latencyMs)
}

// RecordAIRequest records one generative model call.
func RecordAIRequest(statusCode string, latencyMs float64) {
	globalManager.RecordAIRequest(statusCode, latencyMs)
}

// UpdateSystem sets the runtime gauges.
func UpdateSystem(heapBytes uint64, goroutines int, lastPauseMs float64) {
	globalManager.UpdateSystem(heapBytes, goroutines, lastPauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
