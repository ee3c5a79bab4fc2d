package llmchat

import "slices"

// History is an ordered, append-only log of entries.
//
// It is generic in T, T being whatever needs to be remembered between two
// requests (conversation exchanges, audit records, ...). History is not safe
// for concurrent use, callers must hold their own lock.
type History[T any] struct {
	history []T
}

// Save records an entry to the history.
func (h *History[T]) Save(entry T) {
	h.history = append(h.history, entry)
}

// Load returns a copy of the history, safe to use after the lock protecting
// the History was released.
func (h *History[T]) Load() []T {
	return slices.Clone(h.history)
}

// Len returns the number of recorded entries.
func (h *History[T]) Len() int {
	return len(h.history)
}

// Clear removes all history.
func (h *History[T]) Clear() {
	h.history = []T{}
}
