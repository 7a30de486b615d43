// Package metric provides Prometheus-based metrics collection and an HTTP
// server for observing ring buffers and the stress harness that drives them.
//
// The package offers a centralized metrics registry managing both core
// harness metrics (active rings, verified elements, run metadata) and
// per-ring metrics registered by the buffers themselves. It includes an HTTP
// server exposing metrics in Prometheus format.
//
// # Basic Usage
//
// Setting up metrics collection and the HTTP server:
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil {
//	        log.Printf("Metrics server error: %v", err)
//	    }
//	}()
//	defer server.Stop()
//
// Metrics are then available at http://localhost:9090/metrics along with a
// health check at /health.
//
// # Core Metrics
//
// The registry automatically registers harness-level metrics under the
// "spanring_harness" prefix:
//
//   - rings_active: number of rings currently being driven
//   - elements_verified_total{ring}: elements consumed and order-checked
//   - verification_errors_total{ring}: sequence verification failures
//   - run_info{run_id}: static run metadata
//
// Go runtime and process collectors are registered as well.
//
// # Per-Ring Metrics
//
// Buffers register their own counters and gauges through the
// MetricsRegistrar interface:
//
//	counter := prometheus.NewCounter(prometheus.CounterOpts{
//	    Name: "spanring_ring_prepares_total",
//	    Help: "Total successful span reservations",
//	})
//	err := registry.RegisterCounter("ring-0", "prepares_total", counter)
//
// Registration is keyed by (ring, metric) so the same metric name can be
// tracked independently per ring via constant labels. Duplicate registrations
// are rejected with an invalid-class error.
//
// # Thread Safety
//
// All registry operations are safe for concurrent use. Metric recording is
// lock-free per the Prometheus client guarantees, which keeps the ring's hot
// path free of mutexes.
package metric
