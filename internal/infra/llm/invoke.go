package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"news-tag-app/internal/observability/metrics"
	"news-tag-app/internal/resilience/circuitbreaker"

	"github.com/google/uuid"
)

// caller runs provider calls under a timeout and records the outcome. The
// circuit breaker only tracks provider health; every call is sent.
type caller struct {
	provider string
	timeout  time.Duration
	breaker  *circuitbreaker.CircuitBreaker
}

func newCaller(provider string, timeout time.Duration) caller {
	cbCfg := circuitbreaker.LLMConfig(provider)
	cbCfg.IsSuccessful = countsAsSuccess
	return caller{
		provider: provider,
		timeout:  timeout,
		breaker:  circuitbreaker.New(cbCfg),
	}
}

// breakerMinRequests is the number of failed calls after which a
// provider's breaker reports open.
func breakerMinRequests() uint32 {
	return circuitbreaker.LLMConfig("").MinRequests
}

func (c caller) call(ctx context.Context, model string, fn func(ctx context.Context) (string, error)) Result {
	requestID := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	slog.DebugContext(ctx, "llm request started",
		slog.String("request_id", requestID),
		slog.String("provider", c.provider),
		slog.String("model", model))

	start := time.Now()
	out, err := c.breaker.Observe(func() (interface{}, error) {
		return fn(ctx)
	})
	duration := time.Since(start)

	if err != nil {
		kind := classifyError(err)
		metrics.RecordLLMRequest(c.provider, string(kind), duration)
		slog.WarnContext(ctx, "llm request failed",
			slog.String("request_id", requestID),
			slog.String("provider", c.provider),
			slog.String("kind", string(kind)),
			slog.String("breaker_state", c.breaker.State().String()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return Failure(kind, fmt.Errorf("%s: %w", c.provider, err))
	}

	text := out.(string)
	metrics.RecordLLMRequest(c.provider, string(KindNone), duration)
	slog.DebugContext(ctx, "llm request completed",
		slog.String("request_id", requestID),
		slog.String("provider", c.provider),
		slog.Int("response_length", len(text)),
		slog.Duration("duration", duration))

	return Success(text)
}
