package main

import (
	"bytes"
	"testing"

	"github.com/checkmarble/llmchat"
	"github.com/checkmarble/llmchat/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "0.0.0.0", Port: 5001, CorsOrigin: "*"},
		OpenAi: config.OpenAiConfig{Model: "gpt-3.5-turbo-0125", Temperature: 0.7},
		Gemini: config.GeminiConfig{Model: "gemini-1.5-pro", Temperature: 0.7},
	}
}

func TestNoCredentials(t *testing.T) {
	llm, err := newAdapter(testConfig())

	require.NoError(t, err)
	assert.Empty(t, llm.Available())

	caps := llm.Capabilities()

	require.Len(t, caps, 2)
	assert.Equal(t, "gemini", caps[0].Name)
	assert.EqualError(t, caps[0].Reason, "GOOGLE_API_KEY is not set")
	assert.Equal(t, "chatgpt", caps[1].Name)
	assert.EqualError(t, caps[1].Reason, "OPENAI_API_KEY is not set")
}

func TestCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAi.ApiKey = "sk-openai"
	cfg.Gemini.ApiKey = "google-key"

	llm, err := newAdapter(cfg)

	require.NoError(t, err)
	assert.Equal(t, []string{"gemini", "chatgpt"}, llm.Available())

	provider, err := llm.GetProvider(nil)

	require.NoError(t, err)

	chatgpt, _ := llm.GetProvider(&[]string{"chatgpt"}[0])

	assert.Same(t, chatgpt, provider)
}

func TestLocalOpenAiCompatibleServer(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAi.BaseUrl = "http://localhost:11434/v1"

	llm, err := newAdapter(cfg)

	require.NoError(t, err)
	assert.Equal(t, []string{"chatgpt"}, llm.Available())
}

func TestCapabilityFields(t *testing.T) {
	fields := capabilityFields(llmchat.Capability{Name: "chatgpt", Available: true})

	assert.Equal(t, "chatgpt", fields["provider"])
	assert.Equal(t, true, fields["available"])
	assert.Len(t, fields, 2)
}

func TestCheck(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAi.ApiKey = "sk-openai"

	llm, err := newAdapter(cfg)
	require.NoError(t, err)

	var out bytes.Buffer

	require.NoError(t, check(&out, cfg, llm))

	assert.NotContains(t, out.String(), "sk-openai")
	assert.Contains(t, out.String(), "✓ chatgpt")
	assert.Contains(t, out.String(), "✗ gemini: GOOGLE_API_KEY is not set")

	var dumped map[string]any

	require.NoError(t, yaml.Unmarshal(out.Bytes()[:bytes.Index(out.Bytes(), []byte("# Model providers"))], &dumped))
	assert.Equal(t, "********", dumped["openai"].(map[string]any)["api_key"])
}

func TestCheckWithoutProviders(t *testing.T) {
	cfg := testConfig()

	llm, err := newAdapter(cfg)
	require.NoError(t, err)

	var out bytes.Buffer

	assert.ErrorContains(t, check(&out, cfg, llm), "no model provider is available")
	assert.Contains(t, out.String(), "✗ chatgpt: OPENAI_API_KEY is not set")
}

func TestRootCommand(t *testing.T) {
	root := newRootCommand()

	names := []string{}
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"serve", "check"}, names)
	assert.Equal(t, config.DefaultEnvFile, root.PersistentFlags().Lookup("env-file").DefValue)
}
