// Package metrics exposes Prometheus collectors for the crawl and pipeline
// subsystems. Collectors register on the default registry at init so every
// binary that imports the package serves the same metric families.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trendkorea",
		Subsystem: "fetch",
		Name:      "attempts_total",
		Help:      "HTTP fetch attempts by outcome.",
	}, []string{"outcome"})

	channelResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trendkorea",
		Subsystem: "crawl",
		Name:      "channel_results_total",
		Help:      "Per-channel crawl results by channel code and status.",
	}, []string{"channel", "status"})

	crawlDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "trendkorea",
		Subsystem: "crawl",
		Name:      "run_duration_seconds",
		Help:      "Wall time of a full crawl fan-out.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	cycleStageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trendkorea",
		Subsystem: "pipeline",
		Name:      "stage_duration_seconds",
		Help:      "Wall time per pipeline cycle stage.",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
	}, []string{"stage"})

	cycleResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trendkorea",
		Subsystem: "pipeline",
		Name:      "cycle_results_total",
		Help:      "Pipeline cycle outcomes by status.",
	}, []string{"status"})
)

// FetchAttempt records one HTTP attempt outcome ("ok" or "error").
func FetchAttempt(outcome string) {
	fetchAttempts.WithLabelValues(outcome).Inc()
}

// ChannelResult records one channel's crawl status.
func ChannelResult(channel, status string) {
	channelResults.WithLabelValues(channel, status).Inc()
}

// CrawlRun records the duration of a full crawl fan-out.
func CrawlRun(d time.Duration) {
	crawlDuration.Observe(d.Seconds())
}

// CycleStage records the duration of one pipeline stage.
func CycleStage(stage string, d time.Duration) {
	cycleStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// CycleResult records one pipeline cycle outcome.
func CycleResult(status string) {
	cycleResults.WithLabelValues(status).Inc()
}
