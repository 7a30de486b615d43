package spanring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/spanring/metric"
)

// ringMetrics holds Prometheus metrics for ring operations.
type ringMetrics struct {
	// Counter metrics - directly incremented without stats duplication
	prepares        prometheus.Counter
	prepareRefusals prometheus.Counter
	commits         prometheus.Counter
	abandons        prometheus.Counter
	valueCalls      prometheus.Counter
	consumes        prometheus.Counter
	committed       prometheus.Counter
	consumed        prometheus.Counter

	// Gauge metrics - updated on commit/consume
	occupancy   prometheus.Gauge
	utilization prometheus.Gauge
}

// newRingMetrics creates and registers ring metrics with the provided registry.
func newRingMetrics(registry *metric.MetricsRegistry, prefix string) (*ringMetrics, error) {
	labels := prometheus.Labels{"ring": prefix}

	m := &ringMetrics{
		prepares: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "prepares_total",
			ConstLabels: labels,
			Help:        "Total number of successful span reservations",
		}),
		prepareRefusals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "prepare_refusals_total",
			ConstLabels: labels,
			Help:        "Total number of Prepare calls refused (outstanding reservation or no room)",
		}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "commits_total",
			ConstLabels: labels,
			Help:        "Total number of commits publishing reserved elements",
		}),
		abandons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "abandons_total",
			ConstLabels: labels,
			Help:        "Total number of reservations discarded unpublished",
		}),
		valueCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "value_calls_total",
			ConstLabels: labels,
			Help:        "Total number of readable-span lookups",
		}),
		consumes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "consumes_total",
			ConstLabels: labels,
			Help:        "Total number of consume operations",
		}),
		committed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "committed_elements_total",
			ConstLabels: labels,
			Help:        "Total number of elements published to the ring",
		}),
		consumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "consumed_elements_total",
			ConstLabels: labels,
			Help:        "Total number of elements consumed from the ring",
		}),
		occupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "occupancy",
			ConstLabels: labels,
			Help:        "Committed, unconsumed elements currently in the ring",
		}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "spanring",
			Subsystem:   "ring",
			Name:        "utilization",
			ConstLabels: labels,
			Help:        "Ring utilization as a fraction of capacity (0.0 to 1.0)",
		}),
	}

	// Register all metrics with the registry
	if err := registry.RegisterCounter(prefix, "ring_prepares", m.prepares); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ring_prepare_refusals", m.prepareRefusals); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ring_commits", m.commits); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ring_abandons", m.abandons); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ring_value_calls", m.valueCalls); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ring_consumes", m.consumes); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ring_committed_elements", m.committed); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "ring_consumed_elements", m.consumed); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "ring_occupancy", m.occupancy); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "ring_utilization", m.utilization); err != nil {
		return nil, err
	}

	return m, nil
}

// recordPrepare increments the reservation counter.
func (m *ringMetrics) recordPrepare() {
	m.prepares.Inc()
}

// recordPrepareRefusal increments the refusal counter.
func (m *ringMetrics) recordPrepareRefusal() {
	m.prepareRefusals.Inc()
}

// recordCommit increments commit counters and updates occupancy/utilization.
func (m *ringMetrics) recordCommit(elements, occupancy, capacity uint64) {
	m.commits.Inc()
	m.committed.Add(float64(elements))
	m.occupancy.Set(float64(occupancy))
	m.utilization.Set(float64(occupancy) / float64(capacity))
}

// recordAbandon increments the abandon counter.
func (m *ringMetrics) recordAbandon() {
	m.abandons.Inc()
}

// recordValues increments the readable-span lookup counter.
func (m *ringMetrics) recordValues() {
	m.valueCalls.Inc()
}

// recordConsume increments consume counters and updates occupancy/utilization.
func (m *ringMetrics) recordConsume(elements, occupancy, capacity uint64) {
	m.consumes.Inc()
	m.consumed.Add(float64(elements))
	m.occupancy.Set(float64(occupancy))
	m.utilization.Set(float64(occupancy) / float64(capacity))
}
