package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	exchangesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "briefd",
		Name:      "exchanges_created_total",
		Help:      "Number of exchanges persisted after a successful summarization.",
	})

	exchangesCleared = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "briefd",
		Name:      "exchanges_cleared_total",
		Help:      "Number of clear operations performed.",
	})

	summarizeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "briefd",
		Name:      "summarize_failures_total",
		Help:      "Number of summarization calls that failed.",
	})

	summarizeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "briefd",
		Name:      "summarize_duration_seconds",
		Help:      "Latency of summarization calls.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)
