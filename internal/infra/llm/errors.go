package llm

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	openai "github.com/sashabaranov/go-openai"
)

// classifyError maps an SDK or transport error to a FailureKind.
func classifyError(err error) FailureKind {
	if err == nil {
		return KindNone
	}

	if errors.Is(err, ErrEmptyResponse) {
		return KindEmptyResponse
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	if code := statusCode(err); code != 0 {
		return kindForStatus(code)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindTransport
	}
	if errors.Is(err, context.Canceled) {
		return KindTransport
	}

	return KindUnknown
}

// statusCode extracts the HTTP status from the SDK error types, or 0.
func statusCode(err error) int {
	var oaAPIErr *openai.APIError
	if errors.As(err, &oaAPIErr) {
		return oaAPIErr.HTTPStatusCode
	}
	var oaReqErr *openai.RequestError
	if errors.As(err, &oaReqErr) {
		return oaReqErr.HTTPStatusCode
	}
	var claudeErr *anthropic.Error
	if errors.As(err, &claudeErr) {
		return claudeErr.StatusCode
	}
	return 0
}

func kindForStatus(code int) FailureKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests:
		return KindQuota
	case code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusUnprocessableEntity:
		return KindBadRequest
	case code >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// countsAsSuccess keeps caller cancellation and request-shape problems from
// tripping the breaker; only provider health failures count.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	switch classifyError(err) {
	case KindBadRequest, KindEmptyResponse:
		return true
	default:
		return false
	}
}
