package llmchat

import (
	"github.com/cockroachdb/errors"
)

// InnerResponse is a response from an LLM provider.
type InnerResponse struct {
	Id         string
	Model      string
	Candidates []ResponseCandidate
}

// ResponseCandidate represent a response from an LLM provider.
type ResponseCandidate struct {
	Text string
}

type Response struct {
	InnerResponse
}

func (r Response) NumCandidates() int {
	return len(r.Candidates)
}

func (r Response) Candidate(idx int) (*ResponseCandidate, error) {
	if idx < 0 || idx > len(r.Candidates)-1 {
		return nil, errors.Newf("candidate %d does not exist (%d candidates)", idx, len(r.Candidates))
	}

	return &r.Candidates[idx], nil
}

// Text returns the generated text of a candidate.
func (r Response) Text(idx int) (string, error) {
	candidate, err := r.Candidate(idx)
	if err != nil {
		return "", err
	}

	return candidate.Text, nil
}
