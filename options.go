package llmchat

import "net/http"

type llmOption func(*LlmAdapter)

// WithProvider registers a named provider.
//
// The first registered provider is used as the default provider unless
// WithDefaultProvider is also used.
func WithProvider(name string, provider Llm) llmOption {
	return func(llm *LlmAdapter) {
		llm.register(name)
		llm.providers[name] = provider

		if llm.defaultProvider == "" {
			llm.defaultProvider = name
		}
	}
}

// WithUnavailableProvider records a provider that is known but could not be
// constructed, with the reason why.
//
// It will be listed in the capability table, but requests to it will fail
// with ErrProviderUnavailable.
func WithUnavailableProvider(name string, reason error) llmOption {
	return func(llm *LlmAdapter) {
		llm.register(name)
		llm.unavailable[name] = reason
	}
}

// WithDefaultProvider selects which provider to use for requests that do not
// name one.
func WithDefaultProvider(name string) llmOption {
	return func(llm *LlmAdapter) {
		llm.defaultProvider = name
	}
}

func WithDefaultModel(model string) llmOption {
	return func(llm *LlmAdapter) {
		llm.defaultModel = model
	}
}

// WithHttpClient sets the HTTP client providers should use to reach their API.
func WithHttpClient(client *http.Client) llmOption {
	return func(llm *LlmAdapter) {
		llm.httpClient = client
	}
}
