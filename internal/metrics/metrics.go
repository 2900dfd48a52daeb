package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchDuration tracks analytics fetch latency by source and outcome.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_fetch_duration_seconds",
			Help:    "Duration of analytics fetches",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"source", "outcome"},
	)

	// StaleResultsTotal counts fetch results dropped because newer params superseded them.
	StaleResultsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_stale_results_total",
			Help: "Fetch results discarded because a newer fetch was started",
		},
	)

	EventsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_events_ingested_total",
			Help: "Search events flushed to storage",
		},
		[]string{"outcome"},
	)

	CSVExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_csv_exports_total",
			Help: "CSV exports by outcome",
		},
		[]string{"outcome"},
	)
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
