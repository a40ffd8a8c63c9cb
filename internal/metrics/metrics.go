package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Write path
	EventsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultline_activity_events_logged_total",
			Help: "Activity events written, by group and outcome",
		},
		[]string{"group", "status"},
	)

	ReferenceDrops = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vaultline_activity_reference_drops_total",
			Help: "Reference fields nulled out by the referential guard",
		},
	)

	// Read path
	FeedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultline_activity_feed_requests_total",
			Help: "Activity feed reads, by outcome",
		},
		[]string{"status"},
	)

	FeedDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vaultline_activity_feed_duration_seconds",
			Help:    "Duration of activity feed reads",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Insights
	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vaultline_insights_aggregation_duration_seconds",
			Help:    "Wall-clock duration of the metrics aggregation fan-out",
			Buckets: prometheus.DefBuckets,
		},
	)

	AggregationDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultline_insights_degraded_metrics_total",
			Help: "Aggregation sub-queries that degraded to zero/empty",
		},
		[]string{"metric"},
	)

	CardCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vaultline_insights_card_cache_total",
			Help: "Card cache lookups, by result",
		},
		[]string{"result"},
	)
)
