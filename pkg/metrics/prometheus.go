// Package metrics provides Prometheus metrics for the lesson service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lesson outcome label values.
const (
	OutcomeFlagged = "flagged"
	OutcomeClean   = "clean"
)

// evaluationBuckets covers evaluations from one microsecond to about a quarter second.
var evaluationBuckets = prometheus.ExponentialBuckets(1e-6, 4, 10) //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the lesson service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Lesson Metrics - what the service is for
	lessonsGenerated   *prometheus.CounterVec
	metricFlags        *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	evaluationLatency  *prometheus.HistogramVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lessongen",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of metric definitions
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.lessonsGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "lessons_generated_total",
		Help:        "Total number of lessons generated by mode and outcome",
		ConstLabels: labels,
	}, []string{"mode", "outcome"})

	m.metricFlags = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "metric_flags_total",
		Help:        "Total number of flags raised by mode and metric",
		ConstLabels: labels,
	}, []string{"mode", "metric"})

	m.validationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "validation_failures_total",
		Help:        "Total number of rejected metric records by mode",
		ConstLabels: labels,
	}, []string{"mode"})

	m.evaluationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_duration_seconds",
		Help:        "Time spent running the rule set for one record",
		Buckets:     evaluationBuckets,
		ConstLabels: labels,
	}, []string{"mode"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_type_total",
		Help:        "Errors by type and severity",
		ConstLabels: labels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Errors by endpoint, method and type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause time in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})
}

// RecordLesson counts one generated lesson and the flags it raised.
func (m *Manager) RecordLesson(mode string, flaggedMetrics []string, seconds float64) {
	if !m.enabled {
		return
	}
	outcome := OutcomeClean
	if len(flaggedMetrics) > 0 {
		outcome = OutcomeFlagged
	}
	m.lessonsGenerated.WithLabelValues(mode, outcome).Inc()
	for _, metric := range flaggedMetrics {
		m.metricFlags.WithLabelValues(mode, metric).Inc()
	}
	m.evaluationLatency.WithLabelValues(mode).Observe(seconds)
}

// RecordValidationFailure counts one rejected record.
func (m *Manager) RecordValidationFailure(mode string) {
	if !m.enabled {
		return
	}
	m.validationFailures.WithLabelValues(mode).Inc()
}

// RecordHTTPRequest records one served request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordError records an error with type, severity and endpoint labels.
func (m *Manager) RecordError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem sets the system gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	if avgGCPauseMs > 0 {
		m.systemGCPauseTime.Observe(avgGCPauseMs)
	}
}

// Package-level helpers record on the global manager.

// RecordLesson counts one generated lesson on the global manager.
func RecordLesson(mode string, flaggedMetrics []string, seconds float64) {
	globalManager.RecordLesson(mode, flaggedMetrics, seconds)
}

// RecordValidationFailure counts one rejected record on the global manager.
func RecordValidationFailure(mode string) {
	globalManager.RecordValidationFailure(mode)
}

// RecordHTTPRequest records one served request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordError records an error on the global manager.
func RecordError(endpoint, method, errorType, severity string) {
	globalManager.RecordError(endpoint, method, errorType, severity)
}

// UpdateSystem sets the system gauges on the global manager.
func UpdateSystem(memoryBytes uint64, goroutines int, avgGCPauseMs float64) {
	globalManager.UpdateSystem(memoryBytes, goroutines, avgGCPauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
