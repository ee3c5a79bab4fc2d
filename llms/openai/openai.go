package openai

import (
	"context"
	"net/http"

	"github.com/checkmarble/llmchat"
	"github.com/checkmarble/llmchat/internal"
	"github.com/cockroachdb/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/samber/lo"
)

const providerName = "openai"

type OpenAi struct {
	client openai.Client

	apiKey      string
	baseUrl     string
	model       *string
	temperature *float64
}

func New(opts ...Opt) (*OpenAi, error) {
	llm := OpenAi{}

	for _, opt := range opts {
		opt(&llm)
	}

	return &llm, nil
}

func (p *OpenAi) Init(llm internal.Adapter) error {
	if p.apiKey == "" && p.baseUrl == "" {
		return errors.New("an API key is required to use the OpenAI API")
	}

	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}

	if p.apiKey != "" {
		opts = append(opts, option.WithAPIKey(p.apiKey))
	}
	if p.baseUrl != "" {
		opts = append(opts, option.WithBaseURL(p.baseUrl))
	}
	if llm.HttpClient() != nil {
		opts = append(opts, option.WithHTTPClient(llm.HttpClient()))
	}

	p.client = openai.NewClient(opts...)

	return nil
}

func (p *OpenAi) ChatCompletion(ctx context.Context, llm internal.Adapter, requester llmchat.Requester) (*llmchat.InnerResponse, error) {
	cfg, err := p.adaptRequest(llm, requester)
	if err != nil {
		return nil, err
	}

	response, err := p.client.Chat.Completions.New(ctx, *cfg)
	if err != nil {
		return nil, classifyError(err)
	}

	return &llmchat.InnerResponse{
		Id:    response.ID,
		Model: response.Model,
		Candidates: lo.Map(response.Choices, func(choice openai.ChatCompletionChoice, _ int) llmchat.ResponseCandidate {
			return llmchat.ResponseCandidate{
				Text: choice.Message.Content,
			}
		}),
	}, nil
}

func (p *OpenAi) adaptRequest(llm internal.Adapter, requester llmchat.Requester) (*openai.ChatCompletionNewParams, error) {
	r := requester.ToRequest()

	model := internal.CoalesceModel(r.Model, p.model, lo.ToPtr(llm.DefaultModel()))
	if model == "" {
		return nil, errors.New("no model was configured")
	}

	cfg := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(r.Messages)),
	}

	if temperature, ok := lo.Coalesce(r.Temperature, p.temperature); ok {
		cfg.Temperature = openai.Float(*temperature)
	}
	if r.MaxTokens != nil {
		cfg.MaxTokens = openai.Int(int64(*r.MaxTokens))
	}

	for _, msg := range r.Messages {
		content := openai.ChatCompletionMessageParamUnion{}

		switch msg.Role {
		case llmchat.RoleAi:
			content.OfAssistant = &openai.ChatCompletionAssistantMessageParam{
				Content: openai.ChatCompletionAssistantMessageParamContentUnion{
					OfArrayOfContentParts: lo.Map(msg.Parts, func(p string, _ int) openai.ChatCompletionAssistantMessageParamContentArrayOfContentPartUnion {
						return openai.ChatCompletionAssistantMessageParamContentArrayOfContentPartUnion{
							OfText: &openai.ChatCompletionContentPartTextParam{
								Text: p,
							},
						}
					}),
				},
			}

		case llmchat.RoleUser:
			content.OfUser = &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: lo.Map(msg.Parts, func(p string, _ int) openai.ChatCompletionContentPartUnionParam {
						return openai.ChatCompletionContentPartUnionParam{
							OfText: &openai.ChatCompletionContentPartTextParam{
								Text: p,
							},
						}
					}),
				},
			}

		case llmchat.RoleSystem:
			content.OfSystem = &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfArrayOfContentParts: lo.Map(msg.Parts, func(p string, _ int) openai.ChatCompletionContentPartTextParam {
						return openai.ChatCompletionContentPartTextParam{
							Text: p,
						}
					}),
				},
			}

		default:
			return nil, errors.Newf("unsupported message role '%s'", msg.Role)
		}

		cfg.Messages = append(cfg.Messages, content)
	}

	return &cfg, nil
}

// classifyError turns an OpenAI API error into one of the adapter's error
// classes.
//
// OpenAI reports both exhausted quotas and rate limits with a 429 status, so
// the error code is used to tell them apart. When the code could not be
// decoded, the raw error text is inspected for a rate limit, and anything else
// is reported as an exhausted quota.
func classifyError(err error) error {
	var apiErr *openai.Error

	if !errors.As(err, &apiErr) {
		return llmchat.Classify(providerName, err)
	}

	switch {
	case apiErr.Code == "insufficient_quota" || apiErr.Type == "insufficient_quota":
		return errors.Mark(errors.Wrap(err, "openai quota exceeded"), llmchat.ErrQuotaExceeded)
	case apiErr.Code == "rate_limit_exceeded":
		return errors.Mark(errors.Wrap(err, "openai rate limit"), llmchat.ErrRateLimited)
	case apiErr.StatusCode == http.StatusTooManyRequests:
		if classified := llmchat.Classify(providerName, err); errors.Is(classified, llmchat.ErrRateLimited) {
			return classified
		}

		return errors.Mark(errors.Wrap(err, "openai quota exceeded"), llmchat.ErrQuotaExceeded)
	default:
		return llmchat.NewProviderError(providerName, err)
	}
}
