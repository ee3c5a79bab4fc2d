package llmchat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveLoadHistory(t *testing.T) {
	type message struct {
		Number int
	}

	h := History[message]{}

	assert.Len(t, h.Load(), 0)
	assert.Equal(t, 0, h.Len())

	h.Save(message{1})
	h.Save(message{2})
	h.Save(message{3})

	assert.Equal(t, 3, h.Len())
	assert.Equal(t, []message{{1}, {2}, {3}}, h.Load())
}

func TestLoadedHistoryIsACopy(t *testing.T) {
	h := History[int]{}
	h.Save(1)

	loaded := h.Load()
	loaded[0] = 42
	_ = append(loaded, 43)

	assert.Equal(t, []int{1}, h.Load())
}

func TestClearHistory(t *testing.T) {
	type message struct {
		Number int
	}

	h := History[message]{}

	h.Save(message{1})
	h.Save(message{2})
	h.Save(message{3})

	assert.Len(t, h.Load(), 3)

	h.Clear()

	assert.Len(t, h.Load(), 0)
	assert.Equal(t, 0, h.Len())
}
