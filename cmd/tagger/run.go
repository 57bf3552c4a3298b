package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"news-tag-app/internal/config"
	"news-tag-app/internal/infra/worker"
	"news-tag-app/internal/observability/metrics"
	"news-tag-app/internal/usecase/pipeline"

	"github.com/prometheus/client_golang/prometheus"
)

// runOnce executes a single pipeline pass and pushes its metrics when a
// Pushgateway is configured.
func runOnce(ctx context.Context, logger *slog.Logger, cfg *config.TaggerConfig, svc *pipeline.Service) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	_, runErr := svc.Run(ctx)

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(cfg.PushgatewayURL, prometheus.DefaultGatherer); err != nil {
			logger.Warn("failed to push metrics",
				slog.String("url", cfg.PushgatewayURL),
				slog.Any("error", err))
		} else {
			logger.Info("metrics pushed", slog.String("url", cfg.PushgatewayURL))
		}
	}

	return runErr
}

// runScheduled serves health and metrics and runs the pipeline on the cron
// schedule until ctx is cancelled.
func runScheduled(ctx context.Context, logger *slog.Logger, cfg *config.TaggerConfig, svc *pipeline.Service) error {
	status := worker.NewStatusServer(fmt.Sprintf(":%d", cfg.MetricsPort), prometheus.DefaultGatherer, logger)
	go func() {
		if err := status.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server failed", slog.Any("error", err))
		}
	}()

	job := func(ctx context.Context) error {
		stats, err := svc.Run(ctx)
		items := 0
		if stats != nil {
			items = stats.Items
		}
		status.RecordRun(items, err)
		return err
	}

	scheduler, err := worker.NewScheduler(worker.SchedulerConfig{
		Schedule:   cfg.Schedule,
		Timezone:   cfg.Timezone,
		JobTimeout: cfg.RunTimeout,
		RunOnStart: cfg.RunOnStart,
	}, job, logger)
	if err != nil {
		logger.Error("failed to create scheduler", slog.Any("error", err))
		return err
	}

	status.SetReady(true)
	defer status.SetReady(false)
	return scheduler.Run(ctx)
}
