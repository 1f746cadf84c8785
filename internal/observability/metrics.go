package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruhaan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "ruhaan_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "route"},
	)

	IntentDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruhaan_intent_decisions_total",
			Help: "Utterances classified, by intent and deciding stage",
		},
		[]string{"intent", "stage"},
	)

	LLMCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruhaan_llm_calls_total",
			Help: "Chat-completion calls by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	LLMLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ruhaan_llm_latency_seconds",
			Help:    "Chat-completion latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"purpose"},
	)

	StructuredOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruhaan_structured_outcomes_total",
			Help: "Structured builds by parse step that succeeded, or fallback reason",
		},
		[]string{"outcome"},
	)

	CommandDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ruhaan_command_dispatches_total",
			Help: "Commands dispatched by tool (fallback when no tool matched)",
		},
		[]string{"tool"},
	)
)
