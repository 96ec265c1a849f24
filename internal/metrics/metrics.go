package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bakikhata",
	Name:      "http_requests_total",
	Help:      "HTTP requests served, labeled by method and response status.",
}, []string{"method", "status"})

var HTTPDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "bakikhata",
	Name:      "http_request_duration_seconds",
	Help:      "HTTP request latency.",
	Buckets:   prometheus.DefBuckets,
})

var EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bakikhata",
	Name:      "ledger_entries_created_total",
	Help:      "Pending ledger entries recorded, labeled by kind.",
}, []string{"kind"})

var EntriesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "bakikhata",
	Name:      "ledger_entries_resolved_total",
	Help:      "Ledger entries moved to a terminal state, labeled by kind and action.",
}, []string{"kind", "action"})
