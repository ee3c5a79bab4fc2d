package llmchat

import (
	"context"

	"github.com/cockroachdb/errors"
)

type MessageRole int

const (
	RoleSystem MessageRole = iota
	RoleUser
	RoleAi
)

func (r MessageRole) String() string {
	switch r {
	case RoleSystem:
		return "system"
	case RoleUser:
		return "user"
	case RoleAi:
		return "ai"
	default:
		return "unknown"
	}
}

// Requester represents something that can be turned into a request.
//
// Used internally to abstract over request types across packages.
type Requester interface {
	// ToRequest unwraps the actual request.
	ToRequest() InnerRequest
}

// Message is an abstraction over a "prompt".
type Message struct {
	// Role represent "who" (or "what") composed a message.
	Role MessageRole
	// Parts are subdivision of a specific message.
	Parts []string
}

// InnerRequest represents the actual request to be sent to the provider,
// before being adapted for it.
type InnerRequest struct {
	Model    *string
	Messages []Message

	MaxTokens   *int
	Temperature *float64
}

// Request represent a request to be sent the a provider.
type Request struct {
	InnerRequest

	provider *string
	err      error
}

// NewRequest creates a builder to craft a request to sent to an LLM provider.
//
// It provides a series of methods to chain-call in order to add context,
// prompts and configuration.
//
// Example usage:
//
//	resp, err := llmchat.NewRequest().
//		WithProvider("chatgpt").
//		WithInstruction("You are a helpful assistant.").
//		WithText(llmchat.RoleUser, "How are you today?").
//		Do(ctx, llm)
func NewRequest() Request {
	return Request{}
}

// Do executes a built request on the selected provider.
func (r Request) Do(ctx context.Context, llm *LlmAdapter) (*Response, error) {
	if r.err != nil {
		return nil, r.err
	}

	if err := r.checkOrdering(); err != nil {
		return nil, err
	}

	provider, err := llm.GetProvider(r.provider)
	if err != nil {
		return nil, err
	}

	resp, err := provider.ChatCompletion(ctx, llm, r)
	if err != nil {
		return nil, err
	}

	return &Response{*resp}, nil
}

// checkOrdering makes sure all system instructions come before the
// conversation itself.
func (r Request) checkOrdering() error {
	conversationStarted := false

	for idx, msg := range r.Messages {
		switch msg.Role {
		case RoleSystem:
			if conversationStarted {
				return errors.Newf("system instruction at position %d comes after conversation messages", idx)
			}
		default:
			conversationStarted = true
		}
	}

	return nil
}

// WithProvider selects which provider will execute the request.
func (r Request) WithProvider(name string) Request {
	r.provider = &name

	return r
}

// Provider returns the name of the selected provider, if any.
func (r Request) Provider() string {
	if r.provider == nil {
		return ""
	}

	return *r.provider
}

// WithModel overrides the model used for this specific request.
//
// If not provided, the default model set on the provider, then the adapter will
// be used.
func (r Request) WithModel(model string) Request {
	r.Model = &model

	return r
}

// WithInstruction adds a system prompt to the request.
func (r Request) WithInstruction(parts ...string) Request {
	if len(parts) == 0 {
		r.err = errors.CombineErrors(r.err, errors.New("an instruction needs at least one part"))
		return r
	}

	r.Messages = append(r.Messages, Message{
		Role:  RoleSystem,
		Parts: parts,
	})

	return r
}

// WithText adds a text message to the Request.
//
// Each provided `string` will be added as a discrete `part` in the message.
func (r Request) WithText(role MessageRole, parts ...string) Request {
	if len(parts) == 0 {
		r.err = errors.CombineErrors(r.err, errors.Newf("a %s message needs at least one part", role.String()))
		return r
	}

	r.Messages = append(r.Messages, Message{
		Role:  role,
		Parts: parts,
	})

	return r
}

// WithMaxTokens limits how many token a provider can emit for its completion.
func (r Request) WithMaxTokens(tokens int) Request {
	r.MaxTokens = &tokens

	return r
}

// WithTemperature sets custom temperature value to be used.
//
// Default value depends on the provider configuration, then on the model.
func (r Request) WithTemperature(temp float64) Request {
	r.Temperature = &temp

	return r
}

// Request implementation of Requester.

func (r Request) ToRequest() InnerRequest {
	return r.InnerRequest
}
