package ai

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

var (
	ErrNoProviderConfigured = errors.New("no AI provider is configured")
	ErrUnknownProvider      = errors.New("requested AI provider is not configured")
	ErrEmptyTranscript      = errors.New("transcript is required")
	ErrEmptyPrompt          = errors.New("prompt is required")
	ErrTranscriptTooLong    = errors.New("Transcript too long. Maximum 50,000 characters allowed.")
	ErrTranscriptTooShort   = errors.New("Transcript too short. Please provide more content.")
)

// ErrorClass buckets provider failures for logs and metrics.
type ErrorClass string

const (
	ClassRateLimit  ErrorClass = "rate_limit"
	ClassConnection ErrorClass = "connection"
	ClassUpstream   ErrorClass = "upstream"
)

// ProviderError wraps a failed call to a provider.
type ProviderError struct {
	Provider ProviderType
	Class    ErrorClass
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(provider ProviderType, err error) *ProviderError {
	class := classify(err)
	msg := err.Error()
	switch class {
	case ClassRateLimit:
		msg = "rate limit or quota exceeded"
	case ClassConnection:
		msg = "provider unreachable or timed out"
	}
	return &ProviderError{Provider: provider, Class: class, Message: msg, Err: err}
}

func classify(err error) ErrorClass {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return ClassRateLimit
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return ClassRateLimit
	}
	if isQuotaError(err) {
		return ClassRateLimit
	}
	if isConnectionError(err) {
		return ClassConnection
	}
	return ClassUpstream
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource_exhausted",
		"resource exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}
