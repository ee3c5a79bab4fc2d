package mocks

import (
	"context"
	"sync"

	"github.com/checkmarble/llmchat"
	"github.com/checkmarble/llmchat/internal"
	"github.com/stretchr/testify/mock"
)

// Provider is a testify mock implementing llmchat.Llm.
//
// Every request it receives is recorded so tests can inspect what would have
// been sent to a real provider.
type Provider struct {
	mock.Mock

	mu       sync.Mutex
	requests []llmchat.InnerRequest
}

// NewProvider returns a mock provider that initializes successfully.
func NewProvider() *Provider {
	p := &Provider{}
	p.On("Init", mock.Anything).Return(nil)

	return p
}

func (p *Provider) Init(llm internal.Adapter) error {
	args := p.Called(llm)

	return args.Error(0)
}

func (p *Provider) ChatCompletion(ctx context.Context, llm internal.Adapter, requester llmchat.Requester) (*llmchat.InnerResponse, error) {
	r := requester.ToRequest()

	p.mu.Lock()
	p.requests = append(p.requests, r)
	p.mu.Unlock()

	args := p.Called(ctx, r)

	if err := args.Error(1); err != nil {
		return nil, err
	}

	return args.Get(0).(*llmchat.InnerResponse), nil
}

// Requests returns the requests received so far.
func (p *Provider) Requests() []llmchat.InnerRequest {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]llmchat.InnerRequest(nil), p.requests...)
}

// Reply builds a provider response with a single candidate.
func Reply(text string) *llmchat.InnerResponse {
	return &llmchat.InnerResponse{
		Model:      "mockmodel",
		Candidates: []llmchat.ResponseCandidate{{Text: text}},
	}
}
