package metrics

import (
	"time"
)

// RecordFeedFetch records the result and duration of a feed fetch.
func RecordFeedFetch(category string, duration time.Duration, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	FeedFetchTotal.WithLabelValues(category, result).Inc()
	FeedFetchDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// RecordFeedItems records the number of items kept for a category.
func RecordFeedItems(category string, count int) {
	if count <= 0 {
		return
	}
	FeedItemsTotal.WithLabelValues(category).Add(float64(count))
}

// RecordClassification records a classifier outcome and the tags it produced.
func RecordClassification(outcome string, tags []string) {
	TaggingOutcomesTotal.WithLabelValues(outcome).Inc()
	for _, tag := range tags {
		TagsAssignedTotal.WithLabelValues(tag).Inc()
	}
}

// RecordRejectedTags records labels dropped by vocabulary validation.
func RecordRejectedTags(count int) {
	if count <= 0 {
		return
	}
	TagsRejectedTotal.Add(float64(count))
}

// RecordLLMRequest records one provider call. kind is "none" for a successful call.
func RecordLLMRequest(provider, kind string, duration time.Duration) {
	LLMRequestsTotal.WithLabelValues(provider, kind).Inc()
	LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordPacerPause records a pause inserted by the pacer.
func RecordPacerPause() {
	PacerPausesTotal.Inc()
}

// RecordRun records the result of a pipeline run.
// On success the item gauge and last-success timestamp are updated.
func RecordRun(duration time.Duration, items int, err error) {
	RunDuration.Observe(duration.Seconds())
	if err != nil {
		RunsTotal.WithLabelValues("failure").Inc()
		return
	}
	RunsTotal.WithLabelValues("success").Inc()
	LastRunItems.Set(float64(items))
	LastSuccessTimestamp.SetToCurrentTime()
}
