package session

import (
	"sync"
	"time"

	"github.com/checkmarble/llmchat"
)

type MemoryMode string

const (
	MemoryActive     MemoryMode = "active"
	MemoryMemoryless MemoryMode = "memoryless"
)

// ParseMemoryMode reads a memory mode from user input. Only "active" enables
// the memory, anything else is treated as memoryless.
func ParseMemoryMode(mode string) MemoryMode {
	if MemoryMode(mode) == MemoryActive {
		return MemoryActive
	}

	return MemoryMemoryless
}

// Settings are the per-turn choices made by the caller.
type Settings struct {
	Provider               string
	MemoryMode             MemoryMode
	InitialContext         string
	UseContextPersistently bool
}

// PersistentContext tells whether the initial context should be folded once
// into the conversation memory instead of being resent every turn.
func (s Settings) PersistentContext() bool {
	return s.MemoryMode == MemoryActive && s.InitialContext != "" && s.UseContextPersistently
}

// Exchange is one input/output pair of the conversation memory.
type Exchange struct {
	Input  string
	Output string
}

// Turn is one successful round trip, as recorded in the audit log.
type Turn struct {
	UserMessage string    `json:"user"`
	BotResponse string    `json:"bot"`
	Timestamp   time.Time `json:"timestamp"`
}

// Conversation is the state kept for a session.
//
// All accesses go through its own lock, so two requests on the same session
// never lose each other's updates.
type Conversation struct {
	mu sync.Mutex

	id             string
	settings       Settings
	contextApplied bool
	transcript     *llmchat.History[Exchange]
	history        llmchat.History[Turn]
}

func newConversation(id string, settings Settings) *Conversation {
	conv := Conversation{
		id:       id,
		settings: settings,
	}

	if settings.MemoryMode == MemoryActive {
		conv.transcript = &llmchat.History[Exchange]{}
	}

	return &conv
}

// Snapshot is a point-in-time copy of a conversation.
type Snapshot struct {
	ID             string
	Settings       Settings
	ContextApplied bool
	// HasTranscript is false until the conversation ran in active mode.
	HasTranscript bool
	Transcript    []Exchange
	History       []Turn
}

func (c *Conversation) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := Snapshot{
		ID:             c.id,
		Settings:       c.settings,
		ContextApplied: c.contextApplied,
		HasTranscript:  c.transcript != nil,
		History:        c.history.Load(),
	}

	if c.transcript != nil {
		snapshot.Transcript = c.transcript.Load()
	}

	return snapshot
}

// Commit describes the outcome of a successful turn.
type Commit struct {
	Settings Settings
	// Context is the exchange recording that the persistent context was
	// accepted. It is only applied if no other turn applied it first.
	Context *Exchange
	// Exchange is appended to the transcript, in active mode only.
	Exchange Exchange
	Turn     Turn
}

// Commit records a successful turn. It returns whether this turn was the one
// that applied the persistent context.
func (c *Conversation) Commit(commit Commit) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.settings = commit.Settings
	applied := false

	if commit.Settings.MemoryMode == MemoryActive {
		if c.transcript == nil {
			c.transcript = &llmchat.History[Exchange]{}
		}

		if commit.Context != nil && commit.Settings.PersistentContext() && !c.contextApplied {
			c.transcript.Save(*commit.Context)
			c.contextApplied = true
			applied = true
		}

		c.transcript.Save(commit.Exchange)
	}

	c.history.Save(commit.Turn)

	return applied
}
