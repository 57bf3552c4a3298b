// Package llm provides chat-model clients used for tag classification.
//
// Each provider implements Client. A call never returns a Go error: the
// outcome is a Result that either carries the response text or a failure
// with a FailureKind, so callers can degrade per item without unwinding.
package llm

import (
	"context"
	"errors"
)

// Provider identifiers accepted by LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

var (
	// ErrMissingCredential is returned by New when the provider API key is empty.
	ErrMissingCredential = errors.New("llm: missing API credential")

	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("llm: unknown provider")

	// ErrEmptyResponse is reported when the provider answers without any text.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// FailureKind classifies why a call failed.
type FailureKind string

const (
	KindNone          FailureKind = "none"
	KindTransport     FailureKind = "transport"
	KindAuth          FailureKind = "auth"
	KindQuota         FailureKind = "quota"
	KindBadRequest    FailureKind = "bad_request"
	KindServer        FailureKind = "server"
	KindEmptyResponse FailureKind = "empty_response"
	KindTimeout       FailureKind = "timeout"
	KindUnknown       FailureKind = "unknown"
)

// Request is a single-turn generation request.
type Request struct {
	System          string
	User            string
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
	// JSONResponse asks the provider for a JSON-only answer where supported.
	JSONResponse bool
}

// Result is the outcome of Generate. Exactly one of Text or Err is meaningful.
type Result struct {
	Text string
	Err  error
	Kind FailureKind
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Success builds a successful Result.
func Success(text string) Result {
	return Result{Text: text, Kind: KindNone}
}

// Failure builds a failed Result.
func Failure(kind FailureKind, err error) Result {
	return Result{Err: err, Kind: kind}
}

// Client generates text from a chat model.
type Client interface {
	Generate(ctx context.Context, req Request) Result
	// Name returns the provider identifier, used in logs and metrics.
	Name() string
}
