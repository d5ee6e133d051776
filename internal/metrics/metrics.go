package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startupstack_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "startupstack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startupstack_operations_total",
			Help: "Total number of AI operations dispatched, by kind and outcome.",
		},
		[]string{"operation", "status"},
	)

	QuotaDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "startupstack_quota_denials_total",
			Help: "Total number of free-trial quota denials, by operation kind.",
		},
		[]string{"operation"},
	)

	CheckoutsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "startupstack_checkouts_created_total",
			Help: "Total number of hosted checkouts created.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		OperationsTotal,
		QuotaDenialsTotal,
		CheckoutsCreatedTotal,
	)
}
