// Package metrics exposes Prometheus collectors for the outbound request
// pipeline. They are served on /metrics by the HTTP transport; the stdio
// transport registers them but has nowhere to expose them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequests counts completed HTTP exchanges by operation and
	// status. Transport-level failures use status "0".
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gorgias_api_requests_total",
		Help: "Outbound Gorgias API requests by operation and HTTP status.",
	}, []string{"operation", "status"})

	// RequestDuration tracks per-exchange latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gorgias_api_request_duration_seconds",
		Help:    "Outbound Gorgias API request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// RateLimitRemaining is the free request budget after the most recent
	// slot reservation.
	RateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gorgias_rate_limit_remaining",
		Help: "Remaining request slots in the sliding rate-limit window.",
	})

	// ToolCalls counts MCP tool invocations by tool name and outcome.
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gorgias_mcp_tool_calls_total",
		Help: "MCP tool invocations by tool and outcome.",
	}, []string{"tool", "outcome"})
)

// ObserveRequest records one completed (or transport-failed) exchange.
func ObserveRequest(op string, status int, elapsed time.Duration) {
	APIRequests.WithLabelValues(op, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}
