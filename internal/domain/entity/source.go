package entity

import (
	"fmt"
	"net/url"
)

// maxURLLength defines the maximum allowed length for feed URLs.
const maxURLLength = 2048

// Source pairs a human-readable category label with the feed it is pulled from.
type Source struct {
	Category string `yaml:"category" json:"category"`
	FeedURL  string `yaml:"feed_url" json:"feed_url"`
}

// DefaultSources is the built-in source list.
func DefaultSources() []Source {
	return []Source{
		{Category: "総合", FeedURL: "https://news.yahoo.co.jp/rss/topics/top-picks.xml"},
		{Category: "NHK", FeedURL: "https://www.nhk.or.jp/rss/news/cat0.xml"},
		{Category: "ビジネス", FeedURL: "https://biz-journal.jp/index.xml"},
	}
}

// Validate checks that the source has a category and an absolute http(s) feed URL.
func (s Source) Validate() error {
	if s.Category == "" {
		return &ValidationError{Field: "category", Message: "category is required"}
	}
	return ValidateFeedURL(s.FeedURL)
}

// ValidateFeedURL validates that rawURL is a well-formed http or https URL with a host.
func ValidateFeedURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "feed_url", Message: "feed URL is required"}
	}

	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "feed_url",
			Message: fmt.Sprintf("feed URL must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "feed_url", Message: fmt.Sprintf("malformed URL: %v", err)}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "feed_url", Message: "feed URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: "feed_url", Message: "feed URL must have a valid host"}
	}

	return nil
}

// ValidateSources validates every source and rejects an empty list.
func ValidateSources(sources []Source) error {
	if len(sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalidInput)
	}
	for i, src := range sources {
		if err := src.Validate(); err != nil {
			return fmt.Errorf("source[%d] (%q): %w", i, src.Category, err)
		}
	}
	return nil
}
