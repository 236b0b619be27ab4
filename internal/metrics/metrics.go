// Package metrics exposes Prometheus counters for the query pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QueriesTotal counts resolved queries by record source (real, mock).
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sampstat",
		Name:      "queries_total",
		Help:      "Resolved server queries by record source.",
	}, []string{"source"})

	// QueryFailures counts live exchanges that fell back to a synthetic
	// record, by failure class.
	QueryFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sampstat",
		Name:      "query_failures_total",
		Help:      "Failed live exchanges by failure class.",
	}, []string{"reason"})

	// QueryDuration observes the wall time of live exchanges.
	QueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sampstat",
		Name:      "query_duration_seconds",
		Help:      "Duration of live UDP exchanges.",
		Buckets:   prometheus.DefBuckets,
	})
)
