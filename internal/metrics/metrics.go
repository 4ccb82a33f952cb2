package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every azload metric on a private Prometheus registry
type Registry struct {
	registry *prometheus.Registry

	CalculationsTotal   *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	LoadsGenerated      *prometheus.CounterVec
	OverridesTotal      *prometheus.CounterVec
	LockAttemptsTotal   *prometheus.CounterVec
	ClassifierFallbacks *prometheus.CounterVec
	ModelsLoaded        prometheus.Counter
	StoreErrorsTotal    *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initEngineMetrics()
	r.initMCPMetrics()
	r.initHTTPMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initEngineMetrics() {
	r.CalculationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "azload_calculations_total",
			Help: "Load calculations by load type and status",
		},
		[]string{"load_type", "status"}, // ok, warning, rejected
	)

	r.CalculationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "azload_calculation_duration_seconds",
			Help:    "Duration of a single load calculator run",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"load_type"},
	)

	r.LoadsGenerated = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "azload_loads_generated_total",
			Help: "Individual loads produced by the calculators",
		},
		[]string{"load_type"},
	)
}

func (r *Registry) initMCPMetrics() {
	r.OverridesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "azload_mcp_overrides_total",
			Help: "Override attempts by kind and outcome",
		},
		[]string{"kind", "outcome"}, // accepted, rejected
	)

	r.LockAttemptsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "azload_mcp_lock_attempts_total",
			Help: "MCP lock attempts by result",
		},
		[]string{"result"}, // locked, invalid, already_locked
	)

	r.ClassifierFallbacks = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "azload_classifier_fallbacks_total",
			Help: "Classifier calls that fell back to the default classification",
		},
		[]string{"op"},
	)

	r.ModelsLoaded = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "azload_models_loaded_total",
			Help: "Models loaded into a session",
		},
	)

	r.StoreErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "azload_store_errors_total",
			Help: "Record store failures by operation",
		},
		[]string{"operation"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "azload_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "azload_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
}

// The Record helpers are nil-safe so packages can take an optional *Registry.

// RecordCalculation records one calculator run
func (r *Registry) RecordCalculation(loadType, status string, loads int, d time.Duration) {
	if r == nil {
		return
	}
	r.CalculationsTotal.WithLabelValues(loadType, status).Inc()
	r.CalculationDuration.WithLabelValues(loadType).Observe(d.Seconds())
	r.LoadsGenerated.WithLabelValues(loadType).Add(float64(loads))
}

// RecordOverride records an override attempt
func (r *Registry) RecordOverride(kind string, accepted bool) {
	if r == nil {
		return
	}
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	r.OverridesTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordLock records a lock attempt
func (r *Registry) RecordLock(result string) {
	if r == nil {
		return
	}
	r.LockAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordClassifierFallback records a classifier call replaced by defaults
func (r *Registry) RecordClassifierFallback(op string) {
	if r == nil {
		return
	}
	r.ClassifierFallbacks.WithLabelValues(op).Inc()
}

// RecordModelLoaded counts a model loaded into a session
func (r *Registry) RecordModelLoaded() {
	if r == nil {
		return
	}
	r.ModelsLoaded.Inc()
}

// RecordStoreError counts a failed store operation
func (r *Registry) RecordStoreError(operation string) {
	if r == nil {
		return
	}
	r.StoreErrorsTotal.WithLabelValues(operation).Inc()
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, route, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
