// Command tagger pulls the configured news feeds, tags every item with an
// LLM against a fixed vocabulary and writes the result to a JSON file.
//
// By default it runs once and exits. Setting TAGGER_SCHEDULE switches to a
// long-running cron mode with health and metrics endpoints.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"news-tag-app/internal/config"
	"news-tag-app/internal/domain/entity"
	"news-tag-app/internal/infra/feed"
	"news-tag-app/internal/infra/llm"
	"news-tag-app/internal/infra/output"
	"news-tag-app/internal/observability/logging"
	"news-tag-app/internal/usecase/pipeline"
	"news-tag-app/internal/usecase/tagging"
	"news-tag-app/pkg/ratelimit"
)

func main() {
	logger := logging.Init()

	cfg, err := config.LoadTaggerConfig()
	if err != nil {
		logger.Error("failed to load tagger configuration", slog.Any("error", err))
		os.Exit(1)
	}

	llmCfg := llm.LoadConfig()
	client, err := llm.New(llmCfg)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			logger.Error("llm credential is not set",
				slog.String("provider", llmCfg.Provider),
				slog.String("env", llm.CredentialEnv(llmCfg.Provider)))
		} else {
			logger.Error("failed to initialize llm client", slog.Any("error", err))
		}
		os.Exit(1)
	}

	svc, err := newPipeline(cfg, client)
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("tagger configuration loaded",
		slog.String("locale", string(cfg.Locale)),
		slog.String("output", cfg.OutputPath),
		slog.Int("sources", len(cfg.Sources)),
		slog.Int("items_per_source", cfg.ItemsPerSource),
		slog.Int("calls_per_minute", cfg.CallsPerMinute),
		slog.Bool("scheduled", cfg.Scheduled()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if cfg.Scheduled() {
		err = runScheduled(ctx, logger, cfg, svc)
	} else {
		err = runOnce(ctx, logger, cfg, svc)
	}
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// newPipeline wires the feed, classification and output components.
func newPipeline(cfg *config.TaggerConfig, client llm.Client) (*pipeline.Service, error) {
	vocab, err := entity.NewVocabulary(cfg.Locale)
	if err != nil {
		return nil, err
	}

	pacer, err := ratelimit.NewPacer(ratelimit.PacerConfig{CallsPerMinute: cfg.CallsPerMinute})
	if err != nil {
		return nil, err
	}

	return pipeline.NewService(
		feed.NewFetcher(nil),
		feed.NewNormalizer(),
		tagging.NewClassifier(client, vocab),
		pacer,
		output.NewWriter(cfg.OutputPath),
		pipeline.Config{
			Sources:        cfg.Sources,
			ItemsPerSource: cfg.ItemsPerSource,
			Progress:       os.Stdout,
		},
	), nil
}
