package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "community_http_requests_total",
		Help: "Total number of HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "community_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LikeToggles target=board|reply action=like|unlike result=ok|error code
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "community_like_toggles_total",
		Help: "Like and unlike operations by target and result",
	}, []string{"target", "action", "result"})

	OutboxRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "community_outbox_relayed_total",
		Help: "Outbox events relayed by result",
	}, []string{"result"})

	ReconcileFixes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "community_like_count_fixes_total",
		Help: "Denormalized like counters corrected by the reconciler",
	}, []string{"table"})
)
