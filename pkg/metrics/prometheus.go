// Package metrics provides Prometheus metrics for the FloorSight
// ingestion and metrics service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ingestion outcomes
	eventsStored    prometheus.Counter
	eventsDuplicate prometheus.Counter
	eventsRejected  *prometheus.CounterVec
	batchesTotal    prometheus.Counter
	batchSize       prometheus.Histogram

	// Read-side performance
	metricsQueryDuration prometheus.Histogram

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Inventory gauges, refreshed from store counts
	storedEvents       prometheus.Gauge
	registeredWorkers  prometheus.Gauge
	registeredStations prometheus.Gauge
}

// Global manager on a custom registry, so /healthz serves only our own
// collectors.
var (
	customRegistry = prometheus.NewRegistry()          //nolint:gochecknoglobals // singleton registry
	globalManager  = NewManager(WithRegistry(customRegistry)) //nolint:gochecknoglobals // singleton manager
)

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "floorsight",
		subsystem:        "ingest",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.eventsStored = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_stored_total",
		Help:      "Observations durably stored exactly once.",
	})
	m.eventsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Observations skipped as dedup-key collisions.",
	})
	m.eventsRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_rejected_total",
		Help:      "Observations rejected before storage, by reason.",
	}, []string{"reason"})
	m.batchesTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batches_total",
		Help:      "Batch submissions received.",
	})
	m.batchSize = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_size",
		Help:      "Items per batch submission.",
		Buckets:   []float64{1, 5, 10, 50, 100, 250, 500, 1000},
	})

	m.metricsQueryDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "analytics",
		Name:      "query_duration_ms",
		Help:      "Metrics projection latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method, and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.storedEvents = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "events",
		Help:      "Observations currently stored.",
	})
	m.registeredWorkers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "workers",
		Help:      "Workers currently registered.",
	})
	m.registeredStations = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "workstations",
		Help:      "Workstations currently registered.",
	})
}

// Rejection reasons for events_rejected_total.
const (
	ReasonValidation = "validation"
	ReasonReference  = "reference_not_found"
)

// GetRegistry returns the registry backing the global manager, for
// exposition handlers.
func GetRegistry() *prometheus.Registry { return customRegistry }

// Global helpers mirroring the Manager surface.

func RecordEventStored()             { globalManager.eventsStored.Inc() }
func RecordEventDuplicate()          { globalManager.eventsDuplicate.Inc() }
func RecordEventRejected(reason string) {
	globalManager.eventsRejected.WithLabelValues(reason).Inc()
}

// Count variants for batch outcomes.

func RecordEventsStored(n int) {
	if n > 0 {
		globalManager.eventsStored.Add(float64(n))
	}
}

func RecordEventsDuplicate(n int) {
	if n > 0 {
		globalManager.eventsDuplicate.Add(float64(n))
	}
}

func RecordBatch(size int) {
	globalManager.batchesTotal.Inc()
	globalManager.batchSize.Observe(float64(size))
}

func RecordMetricsQueryDuration(ms float64) {
	globalManager.metricsQueryDuration.Observe(ms)
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

func UpdateStoredEvents(n int64)       { globalManager.storedEvents.Set(float64(n)) }
func UpdateRegisteredWorkers(n int64)  { globalManager.registeredWorkers.Set(float64(n)) }
func UpdateRegisteredStations(n int64) { globalManager.registeredStations.Set(float64(n)) }
