package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"news-tag-app/pkg/config"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// SchedulerConfig controls when and how long a Job runs.
type SchedulerConfig struct {
	// Schedule is a 5-field cron expression or a descriptor such as "@hourly".
	Schedule string
	// Timezone is an IANA name the schedule is evaluated in.
	Timezone string
	// JobTimeout bounds each run. Zero means no limit.
	JobTimeout time.Duration
	// RunOnStart triggers one run as soon as the scheduler starts.
	RunOnStart bool
}

// Scheduler runs a Job on a cron schedule. A run that is still in progress
// when the next one fires causes that next run to be skipped.
type Scheduler struct {
	cfg     SchedulerConfig
	job     Job
	logger  *slog.Logger
	cron    *cron.Cron
	entryID cron.EntryID

	ctx context.Context
	wg  sync.WaitGroup
}

// NewScheduler validates cfg and registers job.
func NewScheduler(cfg SchedulerConfig, job Job, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	cl := cronLogger{logger: logger}
	s := &Scheduler{
		cfg:    cfg,
		job:    job,
		logger: logger,
		ctx:    context.Background(),
	}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithParser(config.CronParser()),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	id, err := s.cron.AddFunc(cfg.Schedule, s.runJob)
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", cfg.Schedule, err)
	}
	s.entryID = id
	return s, nil
}

// Run starts the scheduler and blocks until ctx is cancelled. Running jobs
// see the cancellation and Run waits for them before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.cron.Start()
	s.logger.Info("scheduler started",
		slog.String("schedule", s.cfg.Schedule),
		slog.String("timezone", s.cfg.Timezone),
		slog.Time("next_run", s.Next()))

	if s.cfg.RunOnStart {
		wrapped := s.cron.Entry(s.entryID).WrappedJob
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			wrapped.Run()
		}()
	}

	<-ctx.Done()
	stopped := s.cron.Stop()
	<-stopped.Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
	return nil
}

// Next returns the next activation time, or the zero time before Run.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) runJob() {
	ctx := s.ctx
	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}

	start := time.Now()
	s.logger.Info("scheduled run started")
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled run failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return
	}
	s.logger.Info("scheduled run finished", slog.Duration("duration", time.Since(start)))
}

// cronLogger routes robfig/cron diagnostics to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if msg == "skip" {
		l.logger.Warn("scheduled run skipped: previous run still in progress")
		return
	}
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
