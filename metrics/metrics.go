// Package metrics holds the prometheus collectors the service exports on /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dressmaker",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dressmaker",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// TasksEnqueued counts outbox tasks by type and result (ok, error)
	TasksEnqueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dressmaker",
		Name:      "tasks_enqueued_total",
		Help:      "Outbox tasks enqueued by type and result.",
	}, []string{"task", "result"})

	// TasksProcessed counts handled outbox tasks by type and result (ok, error, skipped)
	TasksProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dressmaker",
		Name:      "tasks_processed_total",
		Help:      "Outbox tasks processed by type and result.",
	}, []string{"task", "result"})

	StatusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dressmaker",
		Name:      "order_status_changes_total",
		Help:      "Order main status changes by target status and source.",
	}, []string{"to", "source"})
)

var registerOnce sync.Once

// Register adds every collector to the default registry once
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPRequests, HTTPDuration, TasksEnqueued, TasksProcessed, StatusChanges)
	})
}

// Handler serves the default registry
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// Result maps an error to the "ok"/"error" label
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
