// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed metrics track RSS retrieval per source category.
var (
	// FeedFetchTotal counts feed fetches by category and result (success, failure).
	FeedFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagger_feed_fetch_total",
			Help: "Total number of feed fetches",
		},
		[]string{"category", "result"},
	)

	// FeedFetchDuration measures time to fetch and parse a feed.
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tagger_feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"category"},
	)

	// FeedItemsTotal counts records kept per category after the per-source cap.
	FeedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagger_feed_items_total",
			Help: "Total number of feed items queued for tagging",
		},
		[]string{"category"},
	)
)

// Tagging metrics track classifier outcomes.
var (
	// TaggingOutcomesTotal counts classifications by outcome:
	// success, call_failed, malformed_json, type_mismatch, empty.
	TaggingOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagger_classification_outcomes_total",
			Help: "Total number of classifications by outcome",
		},
		[]string{"outcome"},
	)

	// TagsAssignedTotal counts assigned tags by label.
	TagsAssignedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagger_tags_assigned_total",
			Help: "Total number of tags assigned",
		},
		[]string{"tag"},
	)

	// TagsRejectedTotal counts labels dropped because they are outside the vocabulary.
	TagsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagger_tags_rejected_total",
			Help: "Total number of out-of-vocabulary labels dropped",
		},
	)
)

// LLM metrics track provider calls.
var (
	// LLMRequestsTotal counts LLM calls by provider and failure kind ("none" on success).
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagger_llm_requests_total",
			Help: "Total number of LLM requests",
		},
		[]string{"provider", "kind"},
	)

	// LLMRequestDuration measures LLM call latency.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tagger_llm_request_duration_seconds",
			Help:    "LLM request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"provider"},
	)

	// PacerPausesTotal counts pauses inserted between LLM calls.
	PacerPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tagger_pacer_pauses_total",
			Help: "Total number of pacing pauses between LLM calls",
		},
	)
)

// Run metrics track whole pipeline executions.
var (
	// RunsTotal counts pipeline runs by result (success, failure).
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tagger_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"result"},
	)

	// RunDuration measures the wall time of a pipeline run.
	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tagger_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)

	// LastRunItems reports the number of records written by the last successful run.
	LastRunItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagger_last_run_items",
			Help: "Number of records written by the last successful run",
		},
	)

	// LastSuccessTimestamp is the Unix time of the last successful run.
	LastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tagger_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful run",
		},
	)
)
