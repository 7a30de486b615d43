package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains platform-level metrics shared by harnesses and
// embedding applications (per-ring metrics live with the ring itself).
type Metrics struct {
	// Harness metrics
	RingsActive        prometheus.Gauge
	ElementsVerified   *prometheus.CounterVec
	VerificationErrors *prometheus.CounterVec
	RunInfo            *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RingsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "spanring",
				Subsystem: "harness",
				Name:      "rings_active",
				Help:      "Number of rings currently being driven",
			},
		),

		ElementsVerified: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "spanring",
				Subsystem: "harness",
				Name:      "elements_verified_total",
				Help:      "Total number of elements consumed and order-checked",
			},
			[]string{"ring"},
		),

		VerificationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "spanring",
				Subsystem: "harness",
				Name:      "verification_errors_total",
				Help:      "Total number of sequence verification failures",
			},
			[]string{"ring"},
		),

		RunInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "spanring",
				Subsystem: "harness",
				Name:      "run_info",
				Help:      "Static run metadata (value is always 1)",
			},
			[]string{"run_id"},
		),
	}
}
