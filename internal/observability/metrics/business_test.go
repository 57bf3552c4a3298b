package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFeedFetch(t *testing.T) {
	success := FeedFetchTotal.WithLabelValues("test-feed", "success")
	failure := FeedFetchTotal.WithLabelValues("test-feed", "failure")
	beforeSuccess := testutil.ToFloat64(success)
	beforeFailure := testutil.ToFloat64(failure)

	RecordFeedFetch("test-feed", 120*time.Millisecond, nil)
	RecordFeedFetch("test-feed", 80*time.Millisecond, errors.New("boom"))

	assert.Equal(t, beforeSuccess+1, testutil.ToFloat64(success))
	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(failure))
}

func TestRecordFeedItems(t *testing.T) {
	c := FeedItemsTotal.WithLabelValues("items-feed")
	before := testutil.ToFloat64(c)

	RecordFeedItems("items-feed", 10)
	RecordFeedItems("items-feed", 0)

	assert.Equal(t, before+10, testutil.ToFloat64(c))
}

func TestRecordClassification(t *testing.T) {
	outcome := TaggingOutcomesTotal.WithLabelValues("success")
	politics := TagsAssignedTotal.WithLabelValues("政治")
	economy := TagsAssignedTotal.WithLabelValues("経済")
	beforeOutcome := testutil.ToFloat64(outcome)
	beforePolitics := testutil.ToFloat64(politics)
	beforeEconomy := testutil.ToFloat64(economy)

	RecordClassification("success", []string{"政治", "経済"})

	assert.Equal(t, beforeOutcome+1, testutil.ToFloat64(outcome))
	assert.Equal(t, beforePolitics+1, testutil.ToFloat64(politics))
	assert.Equal(t, beforeEconomy+1, testutil.ToFloat64(economy))
}

func TestRecordRejectedTags(t *testing.T) {
	before := testutil.ToFloat64(TagsRejectedTotal)

	RecordRejectedTags(2)
	RecordRejectedTags(-1)

	assert.Equal(t, before+2, testutil.ToFloat64(TagsRejectedTotal))
}

func TestRecordLLMRequest(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		kind     string
	}{
		{name: "success", provider: "gemini", kind: "none"},
		{name: "quota", provider: "gemini", kind: "quota"},
		{name: "claude auth", provider: "claude", kind: "auth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := LLMRequestsTotal.WithLabelValues(tt.provider, tt.kind)
			before := testutil.ToFloat64(c)

			RecordLLMRequest(tt.provider, tt.kind, 300*time.Millisecond)

			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}

func TestRecordRun(t *testing.T) {
	success := RunsTotal.WithLabelValues("success")
	failure := RunsTotal.WithLabelValues("failure")
	beforeSuccess := testutil.ToFloat64(success)
	beforeFailure := testutil.ToFloat64(failure)

	RecordRun(2*time.Second, 30, nil)
	assert.Equal(t, beforeSuccess+1, testutil.ToFloat64(success))
	assert.Equal(t, float64(30), testutil.ToFloat64(LastRunItems))
	assert.Greater(t, testutil.ToFloat64(LastSuccessTimestamp), float64(0))

	RecordRun(time.Second, 5, errors.New("fetch failed"))
	assert.Equal(t, beforeFailure+1, testutil.ToFloat64(failure))
	assert.Equal(t, float64(30), testutil.ToFloat64(LastRunItems), "failed run keeps the previous gauge")
}

func TestRecordPacerPause(t *testing.T) {
	before := testutil.ToFloat64(PacerPausesTotal)
	RecordPacerPause()
	assert.Equal(t, before+1, testutil.ToFloat64(PacerPausesTotal))
}

func TestPush(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path = r.Method, r.URL.Path
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "push_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Inc()

	require.NoError(t, Push(srv.URL, reg))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/"+PushJobName, path)
}

func TestPush_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "push_fail_total", Help: "test"}))

	err := Push(srv.URL, reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "push metrics")
}
