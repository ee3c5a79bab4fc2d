package main

import (
	"github.com/checkmarble/llmchat"
	"github.com/checkmarble/llmchat/internal/chat"
	"github.com/checkmarble/llmchat/internal/config"
	"github.com/checkmarble/llmchat/llms/aistudio"
	"github.com/checkmarble/llmchat/llms/openai"
	"github.com/cockroachdb/errors"
	"github.com/fatih/structs"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

const (
	geminiProvider  = "gemini"
	chatgptProvider = chat.DefaultProvider
)

// newAdapter builds the capability table from the configuration. A provider
// without credentials is registered as unavailable instead of failing
// startup.
func newAdapter(cfg *config.Config) (*llmchat.LlmAdapter, error) {
	gemini := llmchat.WithUnavailableProvider(geminiProvider, errors.New("GOOGLE_API_KEY is not set"))

	switch {
	case cfg.Gemini.UseVertex():
		provider, err := aistudio.New(
			aistudio.WithBackend(genai.BackendVertexAI),
			aistudio.WithProject(cfg.Gemini.Project),
			aistudio.WithLocation(cfg.Gemini.Location),
			aistudio.WithDefaultModel(cfg.Gemini.Model),
			aistudio.WithTemperature(cfg.Gemini.Temperature),
		)
		if err != nil {
			return nil, errors.Wrap(err, "could not create gemini provider")
		}

		gemini = llmchat.WithProvider(geminiProvider, provider)

	case cfg.Gemini.ApiKey != "":
		provider, err := aistudio.New(
			aistudio.WithApiKey(cfg.Gemini.ApiKey),
			aistudio.WithDefaultModel(cfg.Gemini.Model),
			aistudio.WithTemperature(cfg.Gemini.Temperature),
		)
		if err != nil {
			return nil, errors.Wrap(err, "could not create gemini provider")
		}

		gemini = llmchat.WithProvider(geminiProvider, provider)
	}

	chatgpt := llmchat.WithUnavailableProvider(chatgptProvider, errors.New("OPENAI_API_KEY is not set"))

	if cfg.OpenAi.ApiKey != "" || cfg.OpenAi.BaseUrl != "" {
		provider, err := openai.New(
			openai.WithApiKey(cfg.OpenAi.ApiKey),
			openai.WithBaseUrl(cfg.OpenAi.BaseUrl),
			openai.WithDefaultModel(cfg.OpenAi.Model),
			openai.WithTemperature(cfg.OpenAi.Temperature),
		)
		if err != nil {
			return nil, errors.Wrap(err, "could not create chatgpt provider")
		}

		chatgpt = llmchat.WithProvider(chatgptProvider, provider)
	}

	return llmchat.New(gemini, chatgpt, llmchat.WithDefaultProvider(chatgptProvider))
}

func capabilityFields(c llmchat.Capability) logrus.Fields {
	return logrus.Fields(structs.Map(c))
}

func logCapabilities(llm *llmchat.LlmAdapter) {
	for _, c := range llm.Capabilities() {
		entry := logrus.WithFields(capabilityFields(c))

		if c.Reason != nil {
			entry.WithError(c.Reason).Warn("model provider is not available")
			continue
		}

		entry.Info("model provider is ready")
	}
}
