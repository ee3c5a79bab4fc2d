package aistudio

import (
	"context"
	"net/http"
	"strings"

	"github.com/checkmarble/llmchat"
	"github.com/checkmarble/llmchat/internal"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"google.golang.org/genai"
)

const providerName = "gemini"

type AiStudio struct {
	client *genai.Client

	backend     genai.Backend
	apiKey      string
	project     string
	location    string
	model       *string
	temperature *float64
}

func New(opts ...opt) (*AiStudio, error) {
	llm := AiStudio{
		backend: genai.BackendGeminiAPI,
	}

	for _, opt := range opts {
		opt(&llm)
	}

	return &llm, nil
}

func (p *AiStudio) Init(llm internal.Adapter) error {
	cfg := genai.ClientConfig{
		Backend:    p.backend,
		HTTPClient: llm.HttpClient(),
	}

	switch p.backend {
	case genai.BackendGeminiAPI:
		if p.apiKey == "" {
			return errors.New("an API key is required to use the Gemini API")
		}

		cfg.APIKey = p.apiKey

	case genai.BackendVertexAI:
		if p.project == "" || p.location == "" {
			return errors.New("a project and a location are required to use VertexAI")
		}

		cfg.Project = p.project
		cfg.Location = p.location

	default:
		return errors.New("invalid backend")
	}

	client, err := genai.NewClient(context.Background(), &cfg)
	if err != nil {
		return errors.Wrap(err, "could not create Google GenAI client")
	}

	p.client = client

	return nil
}

func (p *AiStudio) ChatCompletion(ctx context.Context, llm internal.Adapter, requester llmchat.Requester) (*llmchat.InnerResponse, error) {
	model := internal.CoalesceModel(requester.ToRequest().Model, p.model, lo.ToPtr(llm.DefaultModel()))
	if model == "" {
		return nil, errors.New("no model was configured")
	}

	contents, cfg, err := p.adaptRequest(requester)
	if err != nil {
		return nil, err
	}

	response, err := p.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return nil, classifyError(err)
	}

	// The Gemini API backend does not return a response ID.
	return &llmchat.InnerResponse{
		Model: response.ModelVersion,
		Candidates: lo.Map(response.Candidates, func(candidate *genai.Candidate, _ int) llmchat.ResponseCandidate {
			if candidate.Content == nil {
				return llmchat.ResponseCandidate{}
			}

			return llmchat.ResponseCandidate{
				Text: strings.Join(lo.Map(candidate.Content.Parts, func(part *genai.Part, _ int) string {
					return part.Text
				}), ""),
			}
		}),
	}, nil
}

// adaptRequest builds the contents and configuration for Gemini.
//
// Gemini does not accept system messages as part of the contents, all system
// messages are merged, in order, into the system instruction.
func (p *AiStudio) adaptRequest(requester llmchat.Requester) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	r := requester.ToRequest()

	contents := make([]*genai.Content, 0, len(r.Messages))
	cfg := genai.GenerateContentConfig{
		Temperature: internal.MaybeF64ToF32(lo.CoalesceOrEmpty(r.Temperature, p.temperature)),
	}

	cfg.MaxOutputTokens = lo.FromPtr(internal.MaybeIntToInt32(r.MaxTokens))

	for _, msg := range r.Messages {
		parts := lo.Map(msg.Parts, func(p string, _ int) *genai.Part {
			return genai.NewPartFromText(p)
		})

		switch msg.Role {
		case llmchat.RoleSystem:
			if cfg.SystemInstruction == nil {
				cfg.SystemInstruction = &genai.Content{}
			}

			cfg.SystemInstruction.Parts = append(cfg.SystemInstruction.Parts, parts...)

		case llmchat.RoleUser:
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

		case llmchat.RoleAi:
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleModel))

		default:
			return nil, nil, errors.Newf("unsupported message role '%s'", msg.Role)
		}
	}

	return contents, &cfg, nil
}

// classifyError turns a Google GenAI API error into one of the adapter's error
// classes.
//
// Gemini reports exhausted quotas and rate limits as RESOURCE_EXHAUSTED. Unless
// the message clearly describes a rate limit, it is treated as a quota issue.
func classifyError(err error) error {
	var apiErr genai.APIError

	if !errors.As(err, &apiErr) {
		var apiErrPtr *genai.APIError

		if !errors.As(err, &apiErrPtr) || apiErrPtr == nil {
			return llmchat.Classify(providerName, err)
		}

		apiErr = *apiErrPtr
	}

	if apiErr.Code != http.StatusTooManyRequests && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return llmchat.NewProviderError(providerName, err)
	}

	message := strings.ToLower(apiErr.Message)

	if strings.Contains(message, "rate limit") && !strings.Contains(message, "quota") {
		return errors.Mark(errors.Wrap(err, "gemini rate limit"), llmchat.ErrRateLimited)
	}

	return errors.Mark(errors.Wrap(err, "gemini quota exceeded"), llmchat.ErrQuotaExceeded)
}
