package session

import (
	"sync"
)

// Store is the process-wide mapping of session identifiers to conversations.
//
// It is unbounded and never evicts anything: conversations only go away when
// they are cleared.
type Store struct {
	mu            sync.Mutex
	conversations map[string]*Conversation
}

func NewStore() *Store {
	return &Store{
		conversations: make(map[string]*Conversation),
	}
}

// GetOrCreate returns the conversation for a session, creating it with the
// given settings if it does not exist yet.
//
// An existing conversation is returned unchanged, the settings are ignored.
func (s *Store) GetOrCreate(id string, settings Settings) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.conversations[id]; ok {
		return conv, false
	}

	conv := newConversation(id, settings)
	s.conversations[id] = conv

	return conv, true
}

// Get returns the conversation for a session, if it exists.
func (s *Store) Get(id string) (*Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]

	return conv, ok
}

// Clear forgets a session. Clearing an unknown session is not an error.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.conversations)
}
