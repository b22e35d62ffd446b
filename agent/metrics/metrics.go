package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "scheduler"

	StatusOK    = "ok"
	StatusError = "error"
	StatusFail  = "fail"
)

var (
	// MessagesTotal counts inbound user messages by pipeline outcome.
	MessagesTotal *prometheus.CounterVec

	// DecisionsTotal counts decision service calls by outcome (tools, text, empty, error).
	DecisionsTotal *prometheus.CounterVec

	// LoopSteps records how many decisions one message needed.
	LoopSteps prometheus.Histogram

	ToolCallsTotal *prometheus.CounterVec

	ToolDuration *prometheus.HistogramVec

	// DeliveriesTotal counts outbound sends by kind (text, media) and status.
	DeliveriesTotal *prometheus.CounterVec
)

func init() {
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Inbound messages processed by the assistant",
		},
		[]string{"status"},
	)

	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decisions_total",
			Help:      "Decision service invocations",
		},
		[]string{"outcome"},
	)

	LoopSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "loop_steps",
			Help:      "Decisions needed to answer one message",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12},
		},
	)

	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tool",
			Name:      "calls_total",
			Help:      "Tool invocations by outcome",
		},
		[]string{"tool_name", "status"},
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tool",
			Name:      "duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"tool_name"},
	)

	DeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Outbound messages sent to users",
		},
		[]string{"kind", "status"},
	)

	prometheus.MustRegister(
		MessagesTotal,
		DecisionsTotal,
		LoopSteps,
		ToolCallsTotal,
		ToolDuration,
		DeliveriesTotal,
	)
}
