package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// DefaultCallsPerMinute keeps LLM calls 15 seconds apart, under a
// five-requests-per-minute free-tier quota.
const DefaultCallsPerMinute = 4

// maxCallsPerMinute bounds the configurable rate.
const maxCallsPerMinute = 600

// PacerConfig configures a Pacer.
type PacerConfig struct {
	// CallsPerMinute is the sustained call rate. Must be in (0, 600].
	CallsPerMinute int

	// Clock and Sleeper default to the system implementations when nil.
	Clock   Clock
	Sleeper Sleeper
}

// Validate checks the configured rate.
func (c PacerConfig) Validate() error {
	if c.CallsPerMinute <= 0 {
		return fmt.Errorf("calls per minute must be positive, got %d", c.CallsPerMinute)
	}
	if c.CallsPerMinute > maxCallsPerMinute {
		return fmt.Errorf("calls per minute %d exceeds maximum %d", c.CallsPerMinute, maxCallsPerMinute)
	}
	return nil
}

// Interval returns the spacing between calls implied by the rate.
func (c PacerConfig) Interval() time.Duration {
	return time.Minute / time.Duration(c.CallsPerMinute)
}

// Pacer spaces calls using a token bucket with a burst of one.
type Pacer struct {
	limiter *rate.Limiter
	clock   Clock
	sleeper Sleeper
	pauses  atomic.Int64
}

// NewPacer creates a Pacer from cfg.
func NewPacer(cfg PacerConfig) (*Pacer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pacer configuration: %w", err)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	sleeper := cfg.Sleeper
	if sleeper == nil {
		sleeper = SystemSleeper{}
	}

	return &Pacer{
		limiter: rate.NewLimiter(rate.Every(cfg.Interval()), 1),
		clock:   clock,
		sleeper: sleeper,
	}, nil
}

// Wait blocks until the next call may proceed.
// The first call never waits. On cancellation the reserved token is returned
// to the bucket and the context error is returned.
func (p *Pacer) Wait(ctx context.Context) error {
	now := p.clock.Now()
	r := p.limiter.ReserveN(now, 1)
	if !r.OK() {
		return fmt.Errorf("pacer: reservation exceeds burst")
	}

	delay := r.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	p.pauses.Add(1)
	slog.Debug("pacing next call", slog.Duration("delay", delay))

	if err := p.sleeper.Sleep(ctx, delay); err != nil {
		r.CancelAt(p.clock.Now())
		return err
	}
	return nil
}

// Pauses reports how many times Wait had to pause.
func (p *Pacer) Pauses() int {
	return int(p.pauses.Load())
}

