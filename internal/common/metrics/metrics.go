// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineStageCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_completed_total",
			Help: "Total number of pipeline stages completed",
		},
		[]string{"stage"},
	)

	PipelineStageFallback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_fallback_total",
			Help: "Total number of stages that returned their safe default",
		},
		[]string{"stage", "error_code"},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of pipeline stage processing in seconds",
		},
		[]string{"stage"},
	)

	CompletionCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_service_calls_total",
			Help: "Calls to the completion service by outcome",
		},
		[]string{"outcome"},
	)

	StoreQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_store_queries_total",
			Help: "Record store queries by backend and outcome",
		},
		[]string{"backend", "outcome"},
	)

	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Chat requests by resolved intent",
		},
		[]string{"intent"},
	)
)
