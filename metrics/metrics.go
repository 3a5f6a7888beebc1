// Package metrics 提供 Prometheus 指标采集功能。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rag_generator"

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "run",
			Name:      "stopped_total",
			Help:      "Completed runs by stop reason",
		},
		[]string{"reason"},
	)

	UnitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "unit",
			Name:      "attempts_total",
			Help:      "Units of work by result",
		},
		[]string{"result"},
	)

	StageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "unit",
			Name:      "stage_failures_total",
			Help:      "Generation failures by stage and kind",
		},
		[]string{"stage", "kind"},
	)

	RecordsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "output",
			Name:      "records_written_total",
			Help:      "Records successfully persisted",
		},
	)

	WriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "output",
			Name:      "write_failures_total",
			Help:      "Records lost to persistence failures",
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "unit",
			Name:      "stage_duration_seconds",
			Help:      "Model stage duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)
)
