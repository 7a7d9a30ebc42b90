// Package metrics provides Prometheus metrics for the ContextBench leaderboard.
package metrics

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics of the leaderboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Dataset Metrics - load and validation of the results artifact
	datasetLoadDuration       prometheus.Histogram
	datasetLoads              *prometheus.CounterVec
	datasetRecords            prometheus.Gauge
	datasetValidationFailures prometheus.Counter

	// View Metrics - table derivation
	viewRenders        *prometheus.CounterVec
	viewRenderDuration *prometheus.HistogramVec
	viewEmptyResults   *prometheus.CounterVec
	viewErrors         *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Export Metrics
	exports        *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec

	// Site check Metrics
	siteChecks *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "contextbench",
		subsystem:        "leaderboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts(m.counterOpts(name, help))
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.metricPrefix + name,
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     m.histogramBuckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.datasetLoadDuration = auto.NewHistogram(m.histogramOpts(
		"dataset_load_duration_milliseconds",
		"Time to read, validate and decode the results dataset",
	))
	m.datasetLoads = auto.NewCounterVec(m.counterOpts(
		"dataset_loads_total",
		"Dataset load attempts by source and outcome",
	), []string{"source", "outcome"})
	m.datasetRecords = auto.NewGauge(m.gaugeOpts(
		"dataset_records",
		"Number of benchmark records currently served",
	))
	m.datasetValidationFailures = auto.NewCounter(m.counterOpts(
		"dataset_validation_failures_total",
		"Schema violations found while loading datasets",
	))

	m.viewRenders = auto.NewCounterVec(m.counterOpts(
		"view_renders_total",
		"Tables derived per view",
	), []string{"view"})
	m.viewRenderDuration = auto.NewHistogramVec(m.histogramOpts(
		"view_render_duration_milliseconds",
		"Time to derive a table per view",
	), []string{"view"})
	m.viewEmptyResults = auto.NewCounterVec(m.counterOpts(
		"view_empty_results_total",
		"Renders where the filter matched no model",
	), []string{"view"})
	m.viewErrors = auto.NewCounterVec(m.counterOpts(
		"view_errors_total",
		"Rejected view states per view and error kind",
	), []string{"view", "kind"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total",
		"Total number of HTTP requests by endpoint and method",
	), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds",
		"HTTP request duration in milliseconds",
	), []string{"endpoint", "method", "status_code"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total",
		"Errors by endpoint, method and error type",
	), []string{"endpoint", "method", "error_type"})

	m.exports = auto.NewCounterVec(m.counterOpts(
		"exports_total",
		"Export artifacts written per format and outcome",
	), []string{"format", "outcome"})
	m.exportDuration = auto.NewHistogramVec(m.histogramOpts(
		"export_duration_milliseconds",
		"Time to write one export artifact",
	), []string{"format"})

	m.siteChecks = auto.NewCounterVec(m.counterOpts(
		"site_checks_total",
		"Smoke checks run against a served site by check and outcome",
	), []string{"check", "outcome"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes",
		"System memory usage in bytes",
	))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count",
		"Number of goroutines",
	))
}

// RunSystemCollector refreshes the system gauges every refresh interval
// until ctx is done.
func (m *Manager) RunSystemCollector(ctx context.Context) {
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()
	m.collectSystem()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.collectSystem()
		}
	}
}

func (m *Manager) collectSystem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.Alloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// Dataset Metrics Functions.

// RecordDatasetLoad records one load attempt of the dataset.
func RecordDatasetLoad(source string, ok bool, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.datasetLoads.WithLabelValues(source, outcome(ok)).Inc()
	globalManager.datasetLoadDuration.Observe(latencyMs)
}

// UpdateDatasetRecords sets the number of served records.
func UpdateDatasetRecords(count int) {
	globalManager.datasetRecords.Set(float64(count))
}

// RecordValidationFailures adds schema violations found in a dataset.
func RecordValidationFailures(n int) {
	if n > 0 {
		globalManager.datasetValidationFailures.Add(float64(n))
	}
}

// View Metrics Functions.

// RecordViewRender records one table derivation.
func RecordViewRender(viewName string, empty bool, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.viewRenders.WithLabelValues(viewName).Inc()
	globalManager.viewRenderDuration.WithLabelValues(viewName).Observe(latencyMs)
	if empty {
		globalManager.viewEmptyResults.WithLabelValues(viewName).Inc()
	}
}

// RecordViewError records a rejected view state.
func RecordViewError(viewName, kind string) {
	globalManager.viewErrors.WithLabelValues(viewName, kind).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Export Metrics Functions.

// RecordExport records one written export artifact.
func RecordExport(format string, ok bool, latencyMs float64) {
	globalManager.exports.WithLabelValues(format, outcome(ok)).Inc()
	globalManager.exportDuration.WithLabelValues(format).Observe(latencyMs)
}

// RecordSiteCheck records the outcome of one smoke check.
func RecordSiteCheck(check string, ok bool) {
	globalManager.siteChecks.WithLabelValues(check, outcome(ok)).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RunSystemCollector refreshes the global system gauges until ctx is done.
func RunSystemCollector(ctx context.Context) {
	globalManager.RunSystemCollector(ctx)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
