package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/checkmarble/llmchat"
	"github.com/checkmarble/llmchat/internal/session"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	DefaultProvider = "chatgpt"
	DefaultTimeout  = 60 * time.Second

	contextAcknowledgement = "I understand the context and will keep it in mind for our conversation."
)

// Message is a user message to be answered within a session.
type Message struct {
	SessionID              string
	Text                   string
	Provider               string
	MemoryMode             session.MemoryMode
	InitialContext         string
	UseContextPersistently bool
}

func (m Message) settings() session.Settings {
	return session.Settings{
		Provider:               m.Provider,
		MemoryMode:             m.MemoryMode,
		InitialContext:         m.InitialContext,
		UseContextPersistently: m.UseContextPersistently,
	}
}

// Orchestrator decides what to send to the providers and keeps the
// conversations up to date.
type Orchestrator struct {
	llm     *llmchat.LlmAdapter
	store   *session.Store
	timeout time.Duration
	now     func() time.Time
}

type Option func(*Orchestrator)

// WithTimeout bounds the time spent waiting for a provider. A zero timeout
// disables the limit.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.timeout = timeout
	}
}

// WithClock overrides how turn timestamps are computed.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func New(llm *llmchat.LlmAdapter, store *session.Store, opts ...Option) *Orchestrator {
	o := Orchestrator{
		llm:     llm,
		store:   store,
		timeout: DefaultTimeout,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return &o
}

// SendMessage answers a message and records the turn in its session.
//
// The session is only updated once the provider answered successfully. Errors
// returned by SendMessage are *TurnError, with a message fit to be shown to
// the user.
func (o *Orchestrator) SendMessage(ctx context.Context, msg Message) (string, error) {
	settings := msg.settings()
	logger := logrus.WithFields(logrus.Fields{
		"session_id":  msg.SessionID,
		"provider":    msg.Provider,
		"memory_mode": msg.MemoryMode,
	})

	if _, err := o.llm.GetProvider(&msg.Provider); err != nil {
		logger.WithError(err).Warn("requested provider is not available")

		return "", newTurnError(msg.Provider, err)
	}

	conv, created := o.store.GetOrCreate(msg.SessionID, settings)
	if created {
		logger.WithField("sessions", o.store.Len()).Debug("created conversation")
	}

	snapshot := conv.Snapshot()
	req, commit := o.prepare(msg, snapshot)

	callCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc

		callCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()

	resp, err := req.Do(callCtx, o.llm)
	if err != nil {
		logger.WithError(err).Warn("provider failed to answer")

		return "", newTurnError(msg.Provider, err)
	}

	text, err := resp.Text(0)
	if err != nil {
		logger.WithError(err).Warn("provider returned no candidate")

		return "", newTurnError(msg.Provider, llmchat.NewProviderError(msg.Provider, err))
	}

	commit.Exchange = session.Exchange{Input: msg.Text, Output: text}
	commit.Turn = session.Turn{UserMessage: msg.Text, BotResponse: text, Timestamp: o.now()}

	if conv.Commit(commit) {
		logger.Debug("persistent context applied to conversation")
	}

	logger.WithField("duration", time.Since(start)).Debug("message answered")

	return text, nil
}

// prepare builds the request for a turn from a snapshot of its conversation,
// along with the changes to commit if it succeeds.
func (o *Orchestrator) prepare(msg Message, snapshot session.Snapshot) (llmchat.Request, session.Commit) {
	settings := msg.settings()
	commit := session.Commit{Settings: settings}
	req := llmchat.NewRequest().WithProvider(msg.Provider)

	switch settings.MemoryMode {
	case session.MemoryActive:
		transcript := snapshot.Transcript

		if settings.PersistentContext() && !snapshot.ContextApplied {
			commit.Context = &session.Exchange{
				Input:  fmt.Sprintf("System Context: %s", settings.InitialContext),
				Output: contextAcknowledgement,
			}

			transcript = append(transcript, *commit.Context)
		}

		if len(transcript) > 0 {
			req = req.WithInstruction("Previous conversation:\n" + FormatTranscript(transcript))
		}
		if settings.InitialContext != "" && !settings.UseContextPersistently {
			req = req.WithInstruction(settings.InitialContext)
		}

	default:
		if settings.InitialContext != "" {
			req = req.WithInstruction(settings.InitialContext)
		}
	}

	return req.WithText(llmchat.RoleUser, msg.Text), commit
}

// FormatTranscript renders the conversation memory as a plain-text buffer.
func FormatTranscript(transcript []session.Exchange) string {
	return strings.Join(lo.FlatMap(transcript, func(e session.Exchange, _ int) []string {
		return []string{"Human: " + e.Input, "AI: " + e.Output}
	}), "\n")
}

// Clear forgets everything about a session.
func (o *Orchestrator) Clear(sessionID string) {
	o.store.Clear(sessionID)

	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"sessions":   o.store.Len(),
	}).Debug("conversation cleared")
}

// Models lists the providers able to serve requests. When none is, the
// default provider is still listed so clients always have a choice.
func (o *Orchestrator) Models() []string {
	models := o.llm.Available()

	if len(models) == 0 {
		return []string{DefaultProvider}
	}

	return models
}

// History returns the turns recorded for a session.
func (o *Orchestrator) History(sessionID string) ([]session.Turn, error) {
	conv, ok := o.store.Get(sessionID)
	if !ok {
		return nil, errors.Mark(errors.Newf("session '%s' does not exist", sessionID), ErrSessionNotFound)
	}

	return conv.Snapshot().History, nil
}
