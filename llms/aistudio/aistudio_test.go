package aistudio_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/checkmarble/llmchat"
	"github.com/checkmarble/llmchat/llms/aistudio"
	"github.com/cockroachdb/errors"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

const aistudioResponse = `{
	"responseId": "theid",
	"modelVersion": "themodel",
	"candidates": [
		{
			"finishReason": "STOP",
			"content": {
				"role": "model",
				"parts": [
					{ "text": "Hello, " },
					{ "text": "I am Gemini." }
				]
			}
		}
	],
	"createTime": "2025-07-13T16:20:00Z"
}`

const geminiEndpoint = "https://generativelanguage.googleapis.com"

func newAdapter(t *testing.T) *llmchat.LlmAdapter {
	t.Helper()

	httpClient := &http.Client{}
	gock.InterceptClient(httpClient)

	provider, _ := aistudio.New(
		aistudio.WithApiKey("apikey"),
		aistudio.WithDefaultModel("gemini-1.5-pro"),
		aistudio.WithTemperature(0.7),
	)

	llm, err := llmchat.New(llmchat.WithProvider("gemini", provider), llmchat.WithHttpClient(httpClient))

	assert.Nil(t, err)
	assert.Equal(t, []string{"gemini"}, llm.Available())

	return llm
}

func TestGoogleAiRequest(t *testing.T) {
	defer gock.Off()

	llm := newAdapter(t)

	req := llmchat.NewRequest().
		WithProvider("gemini").
		WithInstruction("system text").
		WithInstruction("more system text").
		WithText(llmchat.RoleUser, "user text")

	gock.New(geminiEndpoint).
		Post("/v1beta/models/gemini-1.5-pro:generateContent").
		MatchHeader("x-goog-api-key", "apikey").
		AddMatcher(func(req *http.Request, _ *gock.Request) (bool, error) {
			body, _ := io.ReadAll(req.Body)

			assert.EqualValues(t, 2, gjson.GetBytes(body, "systemInstruction.parts.#").Int())
			assert.Equal(t, "system text", gjson.GetBytes(body, "systemInstruction.parts.0.text").String())
			assert.Equal(t, "more system text", gjson.GetBytes(body, "systemInstruction.parts.1.text").String())

			assert.EqualValues(t, 1, gjson.GetBytes(body, "contents.#").Int())
			assert.Equal(t, "user text", gjson.GetBytes(body, "contents.0.parts.0.text").String())
			assert.Equal(t, "user", gjson.GetBytes(body, "contents.0.role").String())

			assert.InDelta(t, 0.7, gjson.GetBytes(body, "generationConfig.temperature").Float(), 0.0001)

			return true, nil
		}).
		Reply(http.StatusOK).
		SetHeader("content-type", "application/json").
		BodyString(aistudioResponse)

	resp, err := req.Do(t.Context(), llm)

	assert.False(t, gock.HasUnmatchedRequest())
	assert.Nil(t, err)
	assert.NotNil(t, resp)

	assert.Empty(t, resp.Id)
	assert.Equal(t, "themodel", resp.Model)
	assert.Equal(t, 1, resp.NumCandidates())

	text, err := resp.Text(0)

	assert.Nil(t, err)
	assert.Equal(t, "Hello, I am Gemini.", text)
}

func TestGoogleAiErrors(t *testing.T) {
	tt := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "resource exhausted",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":429,"message":"Resource has been exhausted (e.g. check quota).","status":"RESOURCE_EXHAUSTED"}}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, llmchat.ErrQuotaExceeded))
			},
		},
		{
			name:   "rate limit",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"code":429,"message":"Rate limit exceeded for requests per minute.","status":"RESOURCE_EXHAUSTED"}}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, llmchat.ErrRateLimited))
			},
		},
		{
			name:   "invalid argument",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`,
			check: func(t *testing.T, err error) {
				var providerErr *llmchat.ProviderError

				assert.True(t, errors.As(err, &providerErr))
				assert.Equal(t, "gemini", providerErr.Provider)
				assert.Contains(t, providerErr.Detail, "API key not valid")
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			defer gock.Off()

			llm := newAdapter(t)

			gock.New(geminiEndpoint).
				Post("/v1beta/models/gemini-1.5-pro:generateContent").
				Reply(tc.status).
				SetHeader("content-type", "application/json").
				BodyString(tc.body)

			resp, err := llmchat.NewRequest().
				WithText(llmchat.RoleUser, "Hi").
				Do(t.Context(), llm)

			assert.Nil(t, resp)
			assert.Error(t, err)

			tc.check(t, err)
		})
	}
}

type stalledTransport struct{}

func (stalledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	<-req.Context().Done()

	return nil, req.Context().Err()
}

func TestGoogleAiTimeout(t *testing.T) {
	provider, _ := aistudio.New(aistudio.WithApiKey("apikey"), aistudio.WithDefaultModel("gemini-1.5-pro"))

	llm, err := llmchat.New(
		llmchat.WithProvider("gemini", provider),
		llmchat.WithHttpClient(&http.Client{Transport: stalledTransport{}}),
	)
	assert.Nil(t, err)

	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	resp, err := llmchat.NewRequest().WithText(llmchat.RoleUser, "Hi").Do(ctx, llm)

	var providerErr *llmchat.ProviderError

	assert.Nil(t, resp)
	assert.True(t, errors.As(err, &providerErr))
	assert.Equal(t, "gemini", providerErr.Provider)
	assert.Equal(t, "timeout", providerErr.Detail)
	assert.False(t, errors.Is(err, llmchat.ErrQuotaExceeded))
}
