package internal

import "net/http"

// Adapter defines the interface for internal configuration and utility methods
// that LLM providers can access from the main adapter.
type Adapter interface {
	// DefaultModel returns the default model name configured for the adapter.
	DefaultModel() string
	// HttpClient returns the *http.Client instance used for making HTTP requests.
	HttpClient() *http.Client
}
