package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devlink_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// SaveConflicts counts optimistic-lock conflicts detected on aggregate
	// writes, by table. A steady non-zero rate is expected under concurrent
	// edits; spikes indicate contention on hot rows.
	SaveConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_save_conflicts_total",
		Help: "Total number of version conflicts on aggregate saves",
	}, []string{"table"})

	// GithubProxyRequests counts outbound GitHub API calls by outcome.
	GithubProxyRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devlink_github_proxy_requests_total",
		Help: "Total number of GitHub repo lookups by outcome",
	}, []string{"outcome"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		ObserveQuery(operation, table, start)
	}
}
