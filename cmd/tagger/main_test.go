package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"news-tag-app/internal/config"
	"news-tag-app/internal/domain/entity"
	"news-tag-app/internal/infra/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClient struct{ text string }

func (c fixedClient) Generate(context.Context, llm.Request) llm.Result { return llm.Success(c.text) }
func (c fixedClient) Name() string                                      { return "fixed" }

const oneItemFeed = `<?xml version="1.0"?><rss version="2.0"><channel><title>t</title>` +
	`<item><title>新製品発表</title><link>https://example.com/1</link><description>AI 搭載</description></item>` +
	`</channel></rss>`

func testConfig(t *testing.T, feedURL string) *config.TaggerConfig {
	t.Helper()
	cfg := config.DefaultTaggerConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "all_topics.json")
	cfg.Sources = []entity.Source{{Category: "テック", FeedURL: feedURL}}
	cfg.CallsPerMinute = 600
	return &cfg
}

func TestRunOnce_WritesOutputAndPushesMetrics(t *testing.T) {
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(oneItemFeed))
	}))
	defer feedSrv.Close()

	pushed := make(chan string, 1)
	pushSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushed <- r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer pushSrv.Close()

	cfg := testConfig(t, feedSrv.URL)
	cfg.PushgatewayURL = pushSrv.URL
	require.NoError(t, cfg.Validate())

	svc, err := newPipeline(cfg, fixedClient{text: `["IT", "AI", "天気"]`})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, runOnce(context.Background(), logger, cfg, svc))

	data, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category": "テック"`)
	assert.Contains(t, string(data), `"IT",`)
	assert.NotContains(t, string(data), "天気")

	select {
	case path := <-pushed:
		assert.Equal(t, "/metrics/job/news_tagger", path)
	case <-time.After(time.Second):
		t.Fatal("metrics were not pushed")
	}
}

func TestRunOnce_FeedFailureReturnsError(t *testing.T) {
	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer feedSrv.Close()

	cfg := testConfig(t, feedSrv.URL)
	svc, err := newPipeline(cfg, fixedClient{text: `[]`})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.Error(t, runOnce(context.Background(), logger, cfg, svc))
	assert.NoFileExists(t, cfg.OutputPath)
}

func TestNewPipeline_InvalidLocale(t *testing.T) {
	cfg := testConfig(t, "https://example.com/feed.xml")
	cfg.Locale = "fr"

	_, err := newPipeline(cfg, fixedClient{})
	assert.Error(t, err)
}
