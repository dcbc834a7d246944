package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{
	0.001, // 1ms
	0.005, // 5ms
	0.01,  // 10ms
	0.025, // 25ms
	0.05,  // 50ms
	0.1,   // 100ms
	0.25,  // 250ms
	0.5,   // 500ms
	1.0,   // 1s
	2.5,   // 2.5s
	5.0,   // 5s
}

var (
	// ClaimDuration tracks the latency of voucher claims
	ClaimDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voucher_claim_duration_seconds",
			Help:    "Duration of voucher claim requests in seconds",
			Buckets: durationBuckets,
		},
		[]string{"status"},
	)

	// ValidateDuration tracks the latency of voucher validations
	ValidateDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "voucher_validate_duration_seconds",
			Help:    "Duration of voucher validation requests in seconds",
			Buckets: durationBuckets,
		},
		[]string{"status", "kind"},
	)
)

// RecordClaimDuration records the duration of a claim request
func RecordClaimDuration(status string, duration float64) {
	ClaimDuration.WithLabelValues(status).Observe(duration)
}

// RecordValidateDuration records the duration of a validation request
func RecordValidateDuration(status, kind string, duration float64) {
	ValidateDuration.WithLabelValues(status, kind).Observe(duration)
}
