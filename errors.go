package llmchat

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

var (
	// ErrProviderUnavailable is used when the requested provider is unknown,
	// was never constructed or failed to initialize.
	ErrProviderUnavailable = errors.New("provider is not available")
	// ErrQuotaExceeded is used when the provider reports an exhausted quota or
	// billing issue.
	ErrQuotaExceeded = errors.New("provider quota exceeded")
	// ErrRateLimited is used when the provider rejects a request because of a
	// temporary rate limit.
	ErrRateLimited = errors.New("provider rate limit reached")
)

// ProviderError is any other failure reported by a provider. Detail carries the
// raw provider error text.
type ProviderError struct {
	Provider string
	Detail   string

	cause error
}

func (e *ProviderError) Error() string {
	return e.Detail
}

func (e *ProviderError) Unwrap() error {
	return e.cause
}

// NewProviderError wraps a provider failure that could not be classified.
//
// A deadline exceeded while waiting for the provider is reported with the
// "timeout" detail.
func NewProviderError(provider string, err error) error {
	detail := err.Error()

	if errors.Is(err, context.DeadlineExceeded) {
		detail = "timeout"
	}

	return &ProviderError{
		Provider: provider,
		Detail:   detail,
		cause:    err,
	}
}

// How SDKs and HTTP libraries spell out a 429 status in error messages.
var tooManyRequests = []string{
	"429 too many requests",
	"status 429",
	"status code 429",
	"status: 429",
	"error 429",
	"code 429",
	"\"code\":429",
}

// Classify is the last-resort classification for provider errors that do not
// expose a structured type. It only looks at the error text.
func Classify(provider string, err error) error {
	if err == nil {
		return nil
	}

	message := strings.ToLower(err.Error())

	switch {
	case strings.Contains(message, "insufficient_quota"):
		return errors.Mark(errors.Wrapf(err, "%s quota exceeded", provider), ErrQuotaExceeded)
	case strings.Contains(message, "rate_limit"), strings.Contains(message, "rate limit"):
		return errors.Mark(errors.Wrapf(err, "%s rate limit", provider), ErrRateLimited)
	case lo.SomeBy(tooManyRequests, func(pattern string) bool { return strings.Contains(message, pattern) }):
		return errors.Mark(errors.Wrapf(err, "%s quota exceeded", provider), ErrQuotaExceeded)
	default:
		return NewProviderError(provider, err)
	}
}
