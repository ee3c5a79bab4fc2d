package llmchat

import (
	"context"
	"net/http"

	"github.com/checkmarble/llmchat/internal"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Llm is implemented by every supported LLM provider.
type Llm interface {
	Init(llm internal.Adapter) error
	ChatCompletion(context.Context, internal.Adapter, Requester) (*InnerResponse, error)
}

// Capability describes whether a registered provider can serve requests.
//
// Reason is set when the provider is unavailable, either because it was never
// constructed (missing credentials) or because its initialization failed.
type Capability struct {
	Name      string `structs:"provider"`
	Available bool   `structs:"available"`
	Reason    error  `structs:"-"`
}

// LlmAdapter is the main entrypoint for interacting with different LLM providers.
//
// It holds the capability table built when it is created. The table is never
// modified afterwards, so an LlmAdapter can be shared between goroutines.
type LlmAdapter struct {
	names           []string
	providers       map[string]Llm
	unavailable     map[string]error
	defaultProvider string

	httpClient   *http.Client
	defaultModel string

	err error
}

// New creates a new LlmAdapter with the given options.
//
// Every registered provider is initialized. A provider failing to initialize
// does not fail the adapter, it is recorded as unavailable with the
// initialization error as its reason.
//
// Example usage:
//
//	llm, err := llmchat.New(
//		llmchat.WithProvider("chatgpt", provider),
//		llmchat.WithUnavailableProvider("gemini", errors.New("GOOGLE_API_KEY is not set")),
//	)
func New(opts ...llmOption) (*LlmAdapter, error) {
	llm := LlmAdapter{
		providers:   make(map[string]Llm),
		unavailable: make(map[string]error),
	}

	for _, opt := range opts {
		opt(&llm)
	}

	if llm.err != nil {
		return nil, llm.err
	}

	for _, name := range llm.names {
		provider, ok := llm.providers[name]
		if !ok {
			continue
		}

		if err := provider.Init(llm); err != nil {
			delete(llm.providers, name)
			llm.unavailable[name] = errors.Wrapf(err, "could not initialize LLM provider '%s'", name)
		}
	}

	return &llm, nil
}

func (llm *LlmAdapter) register(name string) {
	if lo.Contains(llm.names, name) {
		llm.err = errors.CombineErrors(llm.err, errors.Newf("provider '%s' registered twice", name))
		return
	}

	llm.names = append(llm.names, name)
}

// GetProvider resolves a provider by name, or the default provider if nil.
//
// Providers that are unknown or unavailable return an error marked with
// ErrProviderUnavailable.
func (llm *LlmAdapter) GetProvider(requestProvider *string) (Llm, error) {
	name := llm.defaultProvider

	if requestProvider != nil {
		name = *requestProvider
	}

	if name == "" {
		return nil, errors.Mark(errors.New("no provider was configured"), ErrProviderUnavailable)
	}

	if provider, ok := llm.providers[name]; ok {
		return provider, nil
	}

	if reason, ok := llm.unavailable[name]; ok {
		return nil, errors.Mark(errors.Wrapf(reason, "provider '%s' is not available", name), ErrProviderUnavailable)
	}

	return nil, errors.Mark(errors.Newf("unknown provider '%s'", name), ErrProviderUnavailable)
}

// Capabilities returns the capability table, in registration order.
func (llm *LlmAdapter) Capabilities() []Capability {
	return lo.Map(llm.names, func(name string, _ int) Capability {
		_, ok := llm.providers[name]

		return Capability{
			Name:      name,
			Available: ok,
			Reason:    llm.unavailable[name],
		}
	})
}

// Available lists the names of the providers able to serve requests, in
// registration order.
func (llm *LlmAdapter) Available() []string {
	return lo.FilterMap(llm.Capabilities(), func(c Capability, _ int) (string, bool) {
		return c.Name, c.Available
	})
}

func (llm LlmAdapter) DefaultModel() string {
	return llm.defaultModel
}

func (llm LlmAdapter) HttpClient() *http.Client {
	return llm.httpClient
}
