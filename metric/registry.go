package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/spanring/errors"
)

// MetricsRegistrar defines the interface for registering ring- and
// harness-specific metrics
type MetricsRegistrar interface {
	RegisterCounter(ringName, metricName string, counter prometheus.Counter) error
	RegisterGauge(ringName, metricName string, gauge prometheus.Gauge) error
	RegisterHistogram(ringName, metricName string, histogram prometheus.Histogram) error
	Unregister(ringName, metricName string) bool
}

// MetricsRegistry manages the registration and lifecycle of metrics
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewMetricsRegistry creates a new metrics registry with core platform metrics
func NewMetricsRegistry() *MetricsRegistry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &MetricsRegistry{
		prometheusRegistry: prometheusRegistry,
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	// Initialize and register core metrics
	registry.Metrics = NewMetrics()
	registry.registerMetrics()

	// Add Go runtime metrics
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core platform metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// register adds a collector under ring/metric, rejecting duplicates both
// at the registry level and at the Prometheus level.
func (r *MetricsRegistry) register(method, ringName, metricName string, collector prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", ringName, metricName)

	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for ring %s", metricName, ringName),
			"MetricsRegistry", method, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(collector); err != nil {
		// Check if it's a duplicate registration error from Prometheus
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "MetricsRegistry", method,
				fmt.Sprintf("prometheus conflict for metric %s", metricName))
		}
		return errors.WrapFatal(err, "MetricsRegistry", method,
			"failed to register collector with prometheus")
	}

	r.registeredMetrics[key] = collector
	return nil
}

// RegisterCounter registers a counter metric for a ring
func (r *MetricsRegistry) RegisterCounter(ringName, metricName string, counter prometheus.Counter) error {
	return r.register("RegisterCounter", ringName, metricName, counter)
}

// RegisterGauge registers a gauge metric for a ring
func (r *MetricsRegistry) RegisterGauge(ringName, metricName string, gauge prometheus.Gauge) error {
	return r.register("RegisterGauge", ringName, metricName, gauge)
}

// RegisterHistogram registers a histogram metric for a ring
func (r *MetricsRegistry) RegisterHistogram(ringName, metricName string, histogram prometheus.Histogram) error {
	return r.register("RegisterHistogram", ringName, metricName, histogram)
}

// Unregister removes a metric from the registry
func (r *MetricsRegistry) Unregister(ringName, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", ringName, metricName)

	collector, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	success := r.prometheusRegistry.Unregister(collector)
	if success {
		delete(r.registeredMetrics, key)
	}

	return success
}

// registerMetrics registers all core platform metrics
func (r *MetricsRegistry) registerMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.RingsActive,
		r.Metrics.ElementsVerified,
		r.Metrics.VerificationErrors,
		r.Metrics.RunInfo,
	)
}
