package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_console_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "lumen_console_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "endpoint"},
	)

	InteractionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "lumen_console_interaction_latency_seconds",
			Help: "Latency of generative interactions in seconds",
		},
	)

	InteractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_console_interaction_failures_total",
			Help: "Failed generative interactions by error kind",
		},
		[]string{"kind"},
	)

	SessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lumen_console_sessions_started_total",
			Help: "Console sessions opened since process start",
		},
	)

	StateSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumen_console_state_saves_total",
			Help: "Console-state persistence attempts by outcome",
		},
		[]string{"outcome"},
	)
)
