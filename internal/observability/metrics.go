// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Parsing metrics
	PostsRouted       *prometheus.CounterVec
	PostsDropped      prometheus.Counter
	SignalsParsed     *prometheus.CounterVec
	SignalsDiscarded  prometheus.Counter
	ParseErrors       *prometheus.CounterVec

	// Matching metrics
	OutcomesSettled     *prometheus.CounterVec
	SignalsPending      prometheus.Gauge
	SignalsExpired      prometheus.Counter
	MarketDataAnomalies prometheus.Counter

	// Leaderboard metrics
	LeaderboardRuns     *prometheus.CounterVec
	LeaderboardAccounts *prometheus.GaugeVec

	// Pipeline metrics
	PipelineRunsTotal *prometheus.CounterVec
	PipelineDuration  *prometheus.HistogramVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "alpha_tracker"
	}

	return &Metrics{
		PostsRouted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parsing",
			Name:      "posts_routed_total",
			Help:      "Total number of posts routed by asset class",
		}, []string{"asset_class"}),
		PostsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parsing",
			Name:      "posts_dropped_total",
			Help:      "Total number of posts with no routable signal",
		}),
		SignalsParsed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parsing",
			Name:      "signals_parsed_total",
			Help:      "Total number of signals extracted by asset class",
		}, []string{"asset_class"}),
		SignalsDiscarded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parsing",
			Name:      "signals_discarded_total",
			Help:      "Total number of signals discarded below the confidence floor",
		}),
		ParseErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "parsing",
			Name:      "errors_total",
			Help:      "Total number of parse phase errors by type",
		}, []string{"error_type"}),

		OutcomesSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "outcomes_settled_total",
			Help:      "Total number of outcomes settled by asset class",
		}, []string{"asset_class"}),
		SignalsPending: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "signals_pending",
			Help:      "Number of signals awaiting settlement after the last run",
		}),
		SignalsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "signals_expired_total",
			Help:      "Total number of signals expired past horizon plus grace",
		}),
		MarketDataAnomalies: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "market_data_anomalies_total",
			Help:      "Total number of out-of-order market data bars skipped",
		}),

		LeaderboardRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "runs_total",
			Help:      "Total number of leaderboard computations by window",
		}, []string{"window_days"}),
		LeaderboardAccounts: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "accounts",
			Help:      "Number of ranked accounts in the latest window",
		}, []string{"window_days"}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by phase and status",
		}, []string{"phase", "status"}),
		PipelineDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline phase duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"phase"}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPostRouted increments the routed posts counter for a class.
func RecordPostRouted(assetClass string) {
	DefaultMetrics.PostsRouted.WithLabelValues(assetClass).Inc()
}

// RecordPostDropped increments the dropped posts counter.
func RecordPostDropped() {
	DefaultMetrics.PostsDropped.Inc()
}

// RecordSignalParsed increments the parsed signals counter for a class.
func RecordSignalParsed(assetClass string) {
	DefaultMetrics.SignalsParsed.WithLabelValues(assetClass).Inc()
}

// RecordSignalDiscarded increments the below-confidence discard counter.
func RecordSignalDiscarded() {
	DefaultMetrics.SignalsDiscarded.Inc()
}

// RecordOutcomeSettled increments the settled outcomes counter for a class.
func RecordOutcomeSettled(assetClass string) {
	DefaultMetrics.OutcomesSettled.WithLabelValues(assetClass).Inc()
}

// RecordSignalExpired increments the expired signals counter.
func RecordSignalExpired() {
	DefaultMetrics.SignalsExpired.Inc()
}

// RecordAnomalies adds skipped out-of-order bars to the anomaly counter.
func RecordAnomalies(n int) {
	if n > 0 {
		DefaultMetrics.MarketDataAnomalies.Add(float64(n))
	}
}

// UpdatePendingSignals sets the pending signals gauge.
func UpdatePendingSignals(n int) {
	DefaultMetrics.SignalsPending.Set(float64(n))
}

// RecordLeaderboardRun records one window computation.
func RecordLeaderboardRun(windowDays string, accounts int) {
	DefaultMetrics.LeaderboardRuns.WithLabelValues(windowDays).Inc()
	DefaultMetrics.LeaderboardAccounts.WithLabelValues(windowDays).Set(float64(accounts))
}

// RecordPipelineRun records a pipeline phase run.
func RecordPipelineRun(phase, status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	DefaultMetrics.PipelineDuration.WithLabelValues(phase).Observe(durationSeconds)
}
