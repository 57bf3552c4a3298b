package feed

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// UserAgent is sent with every feed request.
	UserAgent = "NewsTagBot/1.0"

	// MaxBodyBytes bounds the size of a feed document.
	MaxBodyBytes = 10 << 20

	defaultHTTPTimeout = 30 * time.Second
)

// ErrBodyTooLarge is returned when a feed document exceeds MaxBodyBytes.
var ErrBodyTooLarge = errors.New("feed body exceeds size limit")

// StatusError reports a non-2xx response from a feed server.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("feed %s returned HTTP %d", e.URL, e.StatusCode)
}

// Fetcher performs a single GET per feed URL. It does not retry.
type Fetcher struct {
	client  *http.Client
	maxBody int64
}

// NewFetcher creates a Fetcher using client. A nil client gets NewHTTPClient().
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Fetcher{client: client, maxBody: MaxBodyBytes}
}

// NewHTTPClient returns an HTTP client with TLS 1.2+ and a 30 second timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
}

// Fetch returns the raw XML text served at feedURL.
// Transport failures are wrapped; a non-2xx status yields *StatusError.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", feedURL, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/rdf+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", feedURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: feedURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return "", fmt.Errorf("read body of %s: %w", feedURL, err)
	}
	if int64(len(body)) > f.maxBody {
		return "", fmt.Errorf("%s: %w (%d bytes)", feedURL, ErrBodyTooLarge, f.maxBody)
	}

	slog.Debug("feed fetched",
		slog.String("url", feedURL),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("duration", time.Since(start)))

	return string(body), nil
}
