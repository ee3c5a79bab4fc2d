package llmchat_test

import (
	"testing"

	"github.com/checkmarble/llmchat"
	"github.com/stretchr/testify/assert"
)

func TestResponseText(t *testing.T) {
	r := llmchat.Response{
		InnerResponse: llmchat.InnerResponse{
			Candidates: []llmchat.ResponseCandidate{
				{Text: "first response"},
				{Text: "second response"},
			},
		},
	}

	assert.Equal(t, 2, r.NumCandidates())

	c, err := r.Text(0)

	assert.Nil(t, err)
	assert.Equal(t, "first response", c)

	c, err = r.Text(1)

	assert.Nil(t, err)
	assert.Equal(t, "second response", c)

	_, err = r.Text(2)

	assert.ErrorContains(t, err, "candidate 2 does not exist")
}

func TestResponseGetCandidate(t *testing.T) {
	r := llmchat.Response{
		InnerResponse: llmchat.InnerResponse{
			Candidates: []llmchat.ResponseCandidate{
				{Text: "first response"},
			},
		},
	}

	c, err := r.Candidate(0)

	assert.Nil(t, err)
	assert.Equal(t, r.Candidates[0], *c)

	_, err = r.Candidate(-1)

	assert.ErrorContains(t, err, "candidate -1 does not exist")

	_, err = llmchat.Response{}.Candidate(0)

	assert.ErrorContains(t, err, "candidate 0 does not exist (0 candidates)")
}
