// Command feedcheck probes every configured source and prints a health
// report. It exits with status 1 when any feed is unusable.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"news-tag-app/internal/config"
	"news-tag-app/internal/infra/feed"
	"news-tag-app/internal/observability/logging"
	"news-tag-app/internal/usecase/feedcheck"
)

func main() {
	var (
		outputFormat string
		timeout      time.Duration
	)
	flag.StringVar(&outputFormat, "output", "text", "Output format: text or json")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "Timeout per feed")
	flag.Parse()

	logger := logging.Init()

	if outputFormat != "text" && outputFormat != "json" {
		logger.Error("invalid output format", slog.String("output", outputFormat))
		os.Exit(2)
	}

	cfg, err := config.LoadTaggerConfig()
	if err != nil {
		logger.Error("failed to load tagger configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker := feedcheck.NewChecker(feed.NewFetcher(nil), feed.NewNormalizer(), timeout)
	diags, err := checker.CheckAll(ctx, cfg.Sources)
	if err != nil {
		logger.Error("feed check interrupted", slog.Any("error", err))
	}

	if outputFormat == "json" {
		err = feedcheck.WriteJSON(os.Stdout, diags)
	} else {
		err = feedcheck.WriteReport(os.Stdout, diags, time.Now())
	}
	if err != nil {
		logger.Error("failed to write report", slog.Any("error", err))
		os.Exit(1)
	}

	for _, d := range diags {
		if !d.Healthy() {
			stop()
			os.Exit(1)
		}
	}
}
