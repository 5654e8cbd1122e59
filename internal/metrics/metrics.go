// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RelationRejections counts refused follow, favorite and shopping cart
	// inserts. reason is self_reference, duplicate or not_found.
	RelationRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_relation_rejections_total",
			Help: "Total number of rejected relation inserts",
		},
		[]string{"kind", "reason"},
	)

	ShoppingListExports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Total number of shopping list downloads",
		},
	)

	ShoppingListItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_items",
			Help:    "Number of distinct ingredients per exported shopping list",
			Buckets: prometheus.LinearBuckets(0, 5, 10),
		},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_rate_limit_rejections_total",
			Help: "Total number of requests refused by a rate limiter",
		},
		[]string{"limiter"},
	)
)

// RecordHTTPRequest observes one served request
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordRelationRejection counts a refused relation insert
func RecordRelationRejection(kind, reason string) {
	RelationRejections.WithLabelValues(kind, reason).Inc()
}

// RecordShoppingListExport counts a download and its size
func RecordShoppingListExport(items int) {
	ShoppingListExports.Inc()
	ShoppingListItems.Observe(float64(items))
}

// RecordRateLimitRejection counts a request refused by limiter
func RecordRateLimitRejection(limiter string) {
	RateLimitRejections.WithLabelValues(limiter).Inc()
}
