// Package metrics defines the custom Prometheus metrics for the shipment
// tracking service. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shipment_tracking"

// TracksTotal counts track calls.
// Labels:
//   - courier: the resolved courier code, or "unknown" when detection failed
//   - outcome: "ok", "invalid_number", "unsupported_courier",
//     "credentials_missing", "request_failed", or "parse_failed"
var TracksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tracks_total",
		Help:      "Total number of track calls, by courier and outcome.",
	},
	[]string{"courier", "outcome"},
)

// TrackDuration measures a successful track call end to end, from courier
// resolution through the carrier round trip to normalisation.
// Label:
//   - courier: the resolved courier code
var TrackDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "track_duration_seconds",
		Help:      "Duration of successful track calls, end to end.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"courier"},
)
