package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты анализа для label "result".
const (
	ResultSucceeded = "succeeded"
	ResultEmpty     = "empty"
	ResultFailed    = "failed"
	ResultSkipped   = "skipped"
)

var (
	// AnalysisRuns — количество запусков анализа по результату.
	AnalysisRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analysis",
		Name:      "runs_total",
		Help:      "Total scenario log analyses by result",
	}, []string{"result"})

	// AnalysisDuration — время выполнения одного анализа.
	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "analysis",
		Name:      "duration_seconds",
		Help:      "Wall time of a single scenario log analysis",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	// SinkFailures — ошибки публикации результатов по имени sink.
	SinkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analysis",
		Name:      "sink_failures_total",
		Help:      "Failed result publications by sink",
	}, []string{"sink"})

	// WatcherFiles — файлы, обработанные watcher'ом.
	WatcherFiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analysis",
		Subsystem: "watcher",
		Name:      "files_total",
		Help:      "Scenario logs seen by the watcher by result",
	}, []string{"result"})

	// GatewayRequests — запросы через gateway по маршруту и коду ответа.
	GatewayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "analysis",
		Subsystem: "gateway",
		Name:      "requests_total",
		Help:      "HTTP requests handled by the gateway",
	}, []string{"route", "code"})
)
