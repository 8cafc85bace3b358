// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stage labels.
const (
	StagePublish   = "publish"
	StageBuild     = "build"
	StageSign      = "sign"
	StageBroadcast = "broadcast"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Launch metrics
	LaunchesStarted   prometheus.Counter
	LaunchesCompleted *prometheus.CounterVec // by terminal status

	// Stage metrics
	StageDuration *prometheus.HistogramVec
	StageErrors   *prometheus.CounterVec

	// Broadcast metrics
	ConfirmationDuration prometheus.Histogram
	ConfirmationTimeouts prometheus.Counter

	// Health metrics
	LastSuccessfulLaunch prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_launcher"
	}

	return &Metrics{
		LaunchesStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "started_total",
			Help:      "Total number of launch attempts started",
		}),
		LaunchesCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launch",
			Name:      "completed_total",
			Help:      "Total number of launches finished by terminal status",
		}, []string{"status"}),

		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"stage"}),
		StageErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_errors_total",
			Help:      "Total number of stage failures by stage and error type",
		}, []string{"stage", "error_type"}),

		ConfirmationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "confirmation_duration_seconds",
			Help:      "Time from submission to confirmed inclusion",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		ConfirmationTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "confirmation_timeouts_total",
			Help:      "Total number of confirmations lost to checkpoint expiry",
		}),

		LastSuccessfulLaunch: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_launch_timestamp_seconds",
			Help:      "Unix timestamp of the last confirmed launch",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
