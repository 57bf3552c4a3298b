// Package tagging assigns vocabulary tags to topic text with an LLM.
package tagging

import (
	"context"
	"errors"
	"log/slog"

	"news-tag-app/internal/domain/entity"
	"news-tag-app/internal/infra/llm"
	"news-tag-app/internal/observability/logging"
	"news-tag-app/internal/observability/metrics"
)

// Outcome labels recorded per classification.
const (
	OutcomeSuccess       = "success"
	OutcomeCallFailed    = "call_failed"
	OutcomeMalformedJSON = "malformed_json"
	OutcomeTypeMismatch  = "type_mismatch"
	OutcomeEmpty         = "empty"
)

// Classifier turns item text into an ordered list of vocabulary tags.
type Classifier struct {
	client llm.Client
	vocab  entity.Vocabulary
	system string
}

// NewClassifier creates a Classifier that asks client for tags from vocab.
func NewClassifier(client llm.Client, vocab entity.Vocabulary) *Classifier {
	return &Classifier{
		client: client,
		vocab:  vocab,
		system: SystemPrompt(vocab),
	}
}

// Vocabulary returns the vocabulary the classifier validates against.
func (c *Classifier) Vocabulary() entity.Vocabulary {
	return c.vocab
}

// Classify returns the tags for text. Every failure is logged and yields an
// empty, non-nil slice.
func (c *Classifier) Classify(ctx context.Context, text string) (tags []string) {
	defer func() {
		if r := recover(); r != nil {
			logging.FromContext(ctx).ErrorContext(ctx, "classification panicked",
				slog.Any("panic", r))
			metrics.RecordClassification(OutcomeCallFailed, nil)
			tags = []string{}
		}
	}()

	tags, outcome := c.classify(ctx, text)
	metrics.RecordClassification(outcome, tags)
	return tags
}

func (c *Classifier) classify(ctx context.Context, text string) ([]string, string) {
	logger := logging.FromContext(ctx)
	res := c.client.Generate(ctx, llm.Request{
		System:          c.system,
		User:            text,
		Temperature:     temperature,
		TopP:            topP,
		MaxOutputTokens: maxOutputTokens,
		JSONResponse:    true,
	})
	if !res.OK() {
		logger.WarnContext(ctx, "tag classification call failed",
			slog.String("provider", c.client.Name()),
			slog.String("kind", string(res.Kind)),
			slog.String("error", res.Err.Error()))
		return []string{}, OutcomeCallFailed
	}

	parsed, err := parseTags(res.Text, c.vocab)
	switch {
	case errors.Is(err, ErrMalformedJSON):
		logger.WarnContext(ctx, "response could not be parsed as JSON",
			slog.String("response", res.Text),
			slog.String("error", err.Error()))
		return []string{}, OutcomeMalformedJSON
	case errors.Is(err, ErrTagType):
		logger.WarnContext(ctx, "response is not a list of tags",
			slog.String("response", res.Text),
			slog.String("error", err.Error()))
		return []string{}, OutcomeTypeMismatch
	case err != nil:
		logger.WarnContext(ctx, "response rejected",
			slog.String("error", err.Error()))
		return []string{}, OutcomeTypeMismatch
	}

	if len(parsed.Rejected) > 0 {
		logger.WarnContext(ctx, "dropped labels outside the vocabulary",
			slog.Any("rejected", parsed.Rejected),
			slog.String("locale", string(c.vocab.Locale)))
		metrics.RecordRejectedTags(len(parsed.Rejected))
	}

	if len(parsed.Tags) == 0 {
		return parsed.Tags, OutcomeEmpty
	}
	return parsed.Tags, OutcomeSuccess
}
