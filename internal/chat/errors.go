package chat

import (
	"fmt"

	"github.com/checkmarble/llmchat"
	"github.com/cockroachdb/errors"
)

var ErrSessionNotFound = errors.New("session not found")

type ErrorKind int

const (
	KindProviderUnavailable ErrorKind = iota
	KindQuotaExceeded
	KindRateLimited
	KindProviderError
)

func (k ErrorKind) String() string {
	switch k {
	case KindProviderUnavailable:
		return "provider_unavailable"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "provider_error"
	}
}

// TurnError is a failed turn. Its message is meant for the end user.
type TurnError struct {
	Kind    ErrorKind
	Message string

	cause error
}

func (e *TurnError) Error() string {
	return e.Message
}

func (e *TurnError) Unwrap() error {
	return e.cause
}

func newTurnError(provider string, err error) *TurnError {
	turnErr := TurnError{cause: err}

	var providerErr *llmchat.ProviderError

	switch {
	case errors.Is(err, llmchat.ErrProviderUnavailable):
		turnErr.Kind = KindProviderUnavailable
		turnErr.Message = fmt.Sprintf("Model %s is not available. Please check your API keys.", provider)

	case errors.Is(err, llmchat.ErrQuotaExceeded):
		turnErr.Kind = KindQuotaExceeded
		turnErr.Message = "API quota exceeded. Please check your billing or try again later. You can also add payment information to get more credits."

	case errors.Is(err, llmchat.ErrRateLimited):
		turnErr.Kind = KindRateLimited
		turnErr.Message = "Rate limit reached. Please wait a moment and try again."

	case errors.As(err, &providerErr):
		turnErr.Kind = KindProviderError
		turnErr.Message = fmt.Sprintf("Error processing message: %s", providerErr.Detail)

	default:
		turnErr.Kind = KindProviderError
		turnErr.Message = fmt.Sprintf("Error processing message: %s", llmchat.NewProviderError(provider, err).Error())
	}

	return &turnErr
}
