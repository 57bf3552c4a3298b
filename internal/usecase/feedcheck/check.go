// Package feedcheck probes the configured sources without classifying
// anything and reports which feeds are usable.
package feedcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"time"

	"news-tag-app/internal/domain/entity"
	"news-tag-app/internal/infra/feed"
	"news-tag-app/pkg/ratelimit"
)

// Status classifies the health of a single feed.
type Status string

const (
	StatusOK         Status = "OK"
	StatusEmpty      Status = "EMPTY"
	StatusHTTPError  Status = "HTTP_ERROR"
	StatusParseError Status = "PARSE_ERROR"
	StatusTimeout    Status = "TIMEOUT"
	StatusFetchError Status = "FETCH_ERROR"
)

// DefaultDelay spaces requests to different feeds.
const DefaultDelay = 500 * time.Millisecond

// Diagnostic is the result of probing one source.
type Diagnostic struct {
	Category     string `json:"category"`
	URL          string `json:"url"`
	Status       Status `json:"status"`
	HTTPCode     int    `json:"http_code,omitempty"`
	ItemCount    int    `json:"item_count"`
	LatestDate   string `json:"latest_date,omitempty"`
	Error        string `json:"error,omitempty"`
	ResponseTime int64  `json:"response_time_ms"`
}

// Healthy reports whether the pipeline could use the feed.
func (d Diagnostic) Healthy() bool {
	return d.Status == StatusOK
}

// FeedFetcher retrieves the raw XML of a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// TopicNormalizer parses feed XML into records.
type TopicNormalizer interface {
	Normalize(xmlText string) ([]entity.TopicRecord, error)
}

// Checker probes sources one at a time.
type Checker struct {
	fetcher    FeedFetcher
	normalizer TopicNormalizer
	sleeper    ratelimit.Sleeper
	delay      time.Duration
	timeout    time.Duration
}

// NewChecker creates a Checker. timeout bounds each probe; zero disables it.
func NewChecker(fetcher FeedFetcher, normalizer TopicNormalizer, timeout time.Duration) *Checker {
	return &Checker{
		fetcher:    fetcher,
		normalizer: normalizer,
		sleeper:    ratelimit.SystemSleeper{},
		delay:      DefaultDelay,
		timeout:    timeout,
	}
}

// WithDelay overrides the pause between probes and the sleeper used for it.
func (c *Checker) WithDelay(delay time.Duration, sleeper ratelimit.Sleeper) *Checker {
	c.delay = delay
	if sleeper != nil {
		c.sleeper = sleeper
	}
	return c
}

// CheckAll probes every source in order. It stops early only when ctx ends.
func (c *Checker) CheckAll(ctx context.Context, sources []entity.Source) ([]Diagnostic, error) {
	results := make([]Diagnostic, 0, len(sources))
	for i, src := range sources {
		if i > 0 && c.delay > 0 {
			if err := c.sleeper.Sleep(ctx, c.delay); err != nil {
				return results, err
			}
		}
		d := c.Check(ctx, src)
		slog.Info("feed checked",
			slog.String("category", d.Category),
			slog.String("status", string(d.Status)),
			slog.Int("items", d.ItemCount),
			slog.Int64("response_ms", d.ResponseTime))
		results = append(results, d)
	}
	return results, nil
}

// Check probes a single source.
func (c *Checker) Check(ctx context.Context, src entity.Source) Diagnostic {
	d := Diagnostic{Category: src.Category, URL: src.FeedURL}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	xmlText, err := c.fetcher.Fetch(ctx, src.FeedURL)
	d.ResponseTime = time.Since(start).Milliseconds()
	if err != nil {
		d.Status, d.HTTPCode = fetchStatus(err)
		d.Error = err.Error()
		return d
	}
	d.HTTPCode = 200

	records, err := c.normalizer.Normalize(xmlText)
	if err != nil {
		d.Status = StatusParseError
		d.Error = err.Error()
		return d
	}

	d.ItemCount = len(records)
	if len(records) == 0 {
		d.Status = StatusEmpty
		d.Error = "feed has no items"
		return d
	}
	d.LatestDate = records[0].PubDate
	d.Status = StatusOK
	return d
}

func fetchStatus(err error) (Status, int) {
	var statusErr *feed.StatusError
	if errors.As(err, &statusErr) {
		return StatusHTTPError, statusErr.StatusCode
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout, 0
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StatusTimeout, 0
	}
	return StatusFetchError, 0
}

// WriteReport renders a human-readable summary followed by one block per feed.
func WriteReport(w io.Writer, diags []Diagnostic, generated time.Time) error {
	healthy := 0
	for _, d := range diags {
		if d.Healthy() {
			healthy++
		}
	}

	p := &printer{w: w}
	p.printf("Feed diagnostic report\n")
	p.printf("Generated: %s\n", generated.Format(time.RFC3339))
	p.printf("Sources: %d (working %d, broken %d)\n\n", len(diags), healthy, len(diags)-healthy)

	for _, d := range diags {
		p.printf("[%s] %s\n", d.Status, d.Category)
		p.printf("  URL: %s\n", d.URL)
		if d.Healthy() {
			p.printf("  Items: %d | Latest: %s\n", d.ItemCount, d.LatestDate)
		} else {
			p.printf("  Error: %s\n", d.Error)
		}
		if d.HTTPCode != 0 {
			p.printf("  HTTP: %d | Response: %dms\n\n", d.HTTPCode, d.ResponseTime)
		} else {
			p.printf("  Response: %dms\n\n", d.ResponseTime)
		}
	}
	return p.err
}

// WriteJSON renders diags as an indented JSON array.
func WriteJSON(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(diags); err != nil {
		return fmt.Errorf("encode diagnostics: %w", err)
	}
	return nil
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}
