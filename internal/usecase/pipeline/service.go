// Package pipeline runs one tagging pass: fetch every source, classify each
// item, and write the aggregate.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"news-tag-app/internal/domain/entity"
	"news-tag-app/internal/observability/logging"
	"news-tag-app/internal/observability/metrics"
	"news-tag-app/internal/observability/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultItemsPerSource is the per-feed cap used when none is configured.
const DefaultItemsPerSource = 10

// FeedFetcher retrieves the raw XML of a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// TopicNormalizer parses feed XML into records.
type TopicNormalizer interface {
	Normalize(xmlText string) ([]entity.TopicRecord, error)
}

// TagClassifier assigns tags to item text. It never fails.
type TagClassifier interface {
	Classify(ctx context.Context, text string) []string
}

// Pacer spaces classification calls.
type Pacer interface {
	Wait(ctx context.Context) error
	Pauses() int
}

// TopicWriter persists the aggregate.
type TopicWriter interface {
	Write(records []entity.TopicRecord) error
	Path() string
}

// Config holds the per-run settings of a Service.
type Config struct {
	Sources        []entity.Source
	ItemsPerSource int
	// Progress receives one line per tagged item and a completion line. Defaults to stdout.
	Progress io.Writer
	// Tracer defaults to the global tracer.
	Tracer trace.Tracer
}

// RunStats summarizes a run.
type RunStats struct {
	Sources  int
	Items    int
	Tagged   int
	Untagged int
	Pauses   int
	Duration time.Duration
}

// Service orchestrates fetch, classification and output.
type Service struct {
	fetcher    FeedFetcher
	normalizer TopicNormalizer
	classifier TagClassifier
	pacer      Pacer
	writer     TopicWriter

	sources        []entity.Source
	itemsPerSource int
	progress       io.Writer
	tracer         trace.Tracer
}

// NewService creates a pipeline Service.
func NewService(
	fetcher FeedFetcher,
	normalizer TopicNormalizer,
	classifier TagClassifier,
	pacer Pacer,
	writer TopicWriter,
	cfg Config,
) *Service {
	itemsPerSource := cfg.ItemsPerSource
	if itemsPerSource <= 0 {
		itemsPerSource = DefaultItemsPerSource
	}
	progress := cfg.Progress
	if progress == nil {
		progress = os.Stdout
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = tracing.GetTracer()
	}

	return &Service{
		fetcher:        fetcher,
		normalizer:     normalizer,
		classifier:     classifier,
		pacer:          pacer,
		writer:         writer,
		sources:        cfg.Sources,
		itemsPerSource: itemsPerSource,
		progress:       progress,
		tracer:         tracer,
	}
}

// Run executes one pass. A fetch or parse failure on any source aborts the
// run before classification; nothing is written in that case. Classification
// failures only leave the affected record untagged.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	runID := uuid.NewString()
	logger := logging.FromContext(ctx).With(slog.String("run_id", runID))
	ctx = logging.WithLogger(ctx, logger)

	ctx, span := s.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("pipeline.run_id", runID),
		attribute.Int("pipeline.sources", len(s.sources)),
	))
	defer span.End()

	start := time.Now()
	stats := &RunStats{Sources: len(s.sources)}

	records, err := s.run(ctx, stats)
	stats.Duration = time.Since(start)
	metrics.RecordRun(stats.Duration, stats.Items, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "tagging run failed",
			slog.Int("sources", stats.Sources),
			slog.Duration("duration", stats.Duration),
			slog.Any("error", err))
		return stats, err
	}

	span.SetAttributes(
		attribute.Int("pipeline.items", len(records)),
		attribute.Int("pipeline.tagged", stats.Tagged),
	)
	logger.InfoContext(ctx, "tagging run completed",
		slog.Int("sources", stats.Sources),
		slog.Int("items", stats.Items),
		slog.Int("tagged", stats.Tagged),
		slog.Int("untagged", stats.Untagged),
		slog.Int("pauses", stats.Pauses),
		slog.Duration("duration", stats.Duration))
	return stats, nil
}

func (s *Service) run(ctx context.Context, stats *RunStats) ([]entity.TopicRecord, error) {
	records, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	total := len(records)
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.pace(ctx, stats); err != nil {
			return nil, fmt.Errorf("pacing before item %d: %w", i+1, err)
		}

		tags := s.classify(ctx, i, records[i])
		records[i] = records[i].WithTags(tags)
		if len(tags) > 0 {
			stats.Tagged++
		} else {
			stats.Untagged++
		}

		fmt.Fprintf(s.progress, "[%d/%d] タグ付け完了: %s\n", i+1, total, records[i].Title)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.writer.Write(records); err != nil {
		return nil, fmt.Errorf("write topics: %w", err)
	}
	stats.Items = total
	fmt.Fprintf(s.progress, "%s を更新しました。\n", s.writer.Path())

	return records, nil
}

// collect fetches every source in order and returns the capped, stamped records.
func (s *Service) collect(ctx context.Context) ([]entity.TopicRecord, error) {
	var all []entity.TopicRecord
	for _, src := range s.sources {
		records, err := s.fetchSource(ctx, src)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	if all == nil {
		all = []entity.TopicRecord{}
	}
	return all, nil
}

func (s *Service) fetchSource(ctx context.Context, src entity.Source) ([]entity.TopicRecord, error) {
	ctx, span := s.tracer.Start(ctx, "pipeline.fetch_source", trace.WithAttributes(
		attribute.String("source.category", src.Category),
		attribute.String("source.url", src.FeedURL),
	))
	defer span.End()

	start := time.Now()
	records, err := s.fetchAndNormalize(ctx, src)
	metrics.RecordFeedFetch(src.Category, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("source %q: %w", src.Category, err)
	}

	found := len(records)
	if len(records) > s.itemsPerSource {
		records = records[:s.itemsPerSource]
	}
	for i := range records {
		records[i].Category = src.Category
	}

	span.SetAttributes(attribute.Int("source.items", len(records)))
	metrics.RecordFeedItems(src.Category, len(records))
	logging.FromContext(ctx).InfoContext(ctx, "source fetched",
		slog.String("category", src.Category),
		slog.String("url", src.FeedURL),
		slog.Int("found", found),
		slog.Int("kept", len(records)),
		slog.Duration("duration", time.Since(start)))

	return records, nil
}

func (s *Service) fetchAndNormalize(ctx context.Context, src entity.Source) ([]entity.TopicRecord, error) {
	xmlText, err := s.fetcher.Fetch(ctx, src.FeedURL)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Normalize(xmlText)
}

func (s *Service) pace(ctx context.Context, stats *RunStats) error {
	before := s.pacer.Pauses()
	err := s.pacer.Wait(ctx)
	if s.pacer.Pauses() > before {
		stats.Pauses++
		metrics.RecordPacerPause()
	}
	return err
}

func (s *Service) classify(ctx context.Context, index int, record entity.TopicRecord) []string {
	ctx, span := s.tracer.Start(ctx, "pipeline.classify", trace.WithAttributes(
		attribute.Int("item.index", index),
		attribute.String("item.category", record.Category),
	))
	defer span.End()

	tags := s.classifier.Classify(ctx, record.ClassificationText())
	span.SetAttributes(attribute.Int("item.tags", len(tags)))
	return tags
}
