// metrics — Prometheus-коллекторы trends-service.
// Регистрируются в DefaultRegisterer и отдаются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ToolCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trends",
			Name:      "tool_calls_total",
			Help:      "Total number of tool invocations by outcome",
		},
		[]string{"tool", "outcome"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trends",
			Name:      "tool_duration_seconds",
			Help:      "Duration of tool invocations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	// FeedFailures — ошибки источников, скрытые от вызывающего (fail soft).
	FeedFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trends",
			Name:      "feed_failures_total",
			Help:      "Total number of swallowed feed fetch/parse failures",
		},
		[]string{"source", "kind"},
	)

	FeedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trends",
			Name:      "feed_items_total",
			Help:      "Total number of normalized feed records returned",
		},
		[]string{"source"},
	)

	ReportBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "trends",
			Name:      "report_size_bytes",
			Help:      "Size of rendered PDF reports",
			Buckets:   prometheus.ExponentialBuckets(4<<10, 2, 10),
		},
	)

	UploadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trends",
			Name:      "upload_failures_total",
			Help:      "Total number of failed report uploads by error kind",
		},
		[]string{"kind"},
	)
)

// Исходы вызова инструмента.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"
)
