package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Reviews
	ReviewsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reviews_written_total",
			Help: "Committed review mutations",
		},
		[]string{"op"}, // upsert|update|delete
	)
	ReviewWritesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_writes_failed_total",
			Help: "Review mutations that returned an error",
		},
		[]string{"kind"},
	)

	// Access control
	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Rejected logins and bearer tokens",
		},
		[]string{"reason"}, // credentials|expired|invalid|unknown_user|forbidden
	)

	// Events
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Review events handed to the broker",
		},
		[]string{"result"}, // ok|error
	)

	// Worker queue
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			ReviewsWritten,
			ReviewWritesFailed,
			AuthFailures,
			EventsPublished,
			WorkerQueueDepth,
		)
	})
}
