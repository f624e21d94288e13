// Package metrics holds the Prometheus collectors of the headline client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "daily_news"

// Result label values.
const (
	ResultNetwork = "network"
	ResultCache   = "cache"
	ResultLocal   = "local"
	ResultError   = "error"
	ResultSaved   = "saved"
	ResultUnsaved = "unsaved"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
		},
		[]string{"method", "path"},
	)

	HeadlineLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "news",
			Name:      "headline_loads_total",
			Help:      "Headline loads by category and where the articles came from",
		},
		[]string{"category", "result"},
	)

	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "news",
			Name:      "searches_total",
			Help:      "Searches by terminal result",
		},
		[]string{"result"},
	)

	SavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "news",
			Name:      "saves_total",
			Help:      "Save and unsave operations",
		},
		[]string{"result"},
	)

	EvictedArticlesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "news",
			Name:      "evicted_articles_total",
			Help:      "Unsaved articles evicted from the local cache",
		},
	)

	CheckOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checker",
			Name:      "outcomes_total",
			Help:      "Update check attempts by outcome",
		},
		[]string{"outcome"},
	)

	NewArticlesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checker",
			Name:      "new_articles_total",
			Help:      "Articles discovered by update checks",
		},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "notifications_total",
			Help:      "Notifications raised by notifier",
		},
		[]string{"notifier"},
	)

	SourceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "request_duration_seconds",
			Help:      "Headline source request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint", "result"},
	)
)
