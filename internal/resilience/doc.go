// Package resilience holds fault tolerance helpers for outbound calls.
//
// The tagger makes one LLM call per feed item and never retries or skips one.
// The circuit breaker in the circuitbreaker sub-package only observes: it
// records each call's outcome and logs state changes so an unhealthy provider
// shows up in the logs, but it never rejects a call.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.LLMConfig("gemini"))
//	result, err := cb.Observe(func() (interface{}, error) {
//	    return callProvider(ctx)
//	})
//	if cb.IsOpen() {
//	    // provider looks unhealthy; the call above was still sent
//	}
package resilience
