package interview

import (
	"context"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/llm"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
)

// NextQuestion is one generated decision point: the question to ask and
// whether it probes the previous answer instead of advancing the interview.
type NextQuestion struct {
	Question   string `json:"question"`
	IsFollowUp bool   `json:"is_follow_up"`
}

// QuestionRequest carries everything a strategy may condition on. Transcript
// is ordered oldest-first and already includes the answer being responded to,
// when there is one.
type QuestionRequest struct {
	ResumeText      string
	TargetRole      string
	Difficulty      models.Difficulty
	PersonalityMode models.PersonalityMode
	Transcript      []models.Turn
	QuestionIndex   int
	MaxQuestions    int
}

// lastAnswer returns the content of the most recent candidate turn, if the
// transcript ends with one.
func (r QuestionRequest) lastAnswer() (string, bool) {
	if len(r.Transcript) == 0 {
		return "", false
	}
	last := r.Transcript[len(r.Transcript)-1]
	if last.Role != models.RoleUser {
		return "", false
	}
	return last.Content, true
}

// QuestionStrategy produces the next question, or llm.ErrUnavailable when it
// cannot.
type QuestionStrategy interface {
	NextQuestion(ctx context.Context, req QuestionRequest) (*NextQuestion, error)
}

// Generator tries strategies in priority order; the first one that does not
// report unavailable wins. With the question bank as the final strategy a
// generation never fails.
type Generator struct {
	strategies []QuestionStrategy
}

func NewGenerator(strategies ...QuestionStrategy) *Generator {
	return &Generator{strategies: strategies}
}

func (g *Generator) Next(ctx context.Context, req QuestionRequest) (*NextQuestion, error) {
	for _, s := range g.strategies {
		nq, err := s.NextQuestion(ctx, req)
		if err == nil {
			return nq, nil
		}
	}
	return nil, llm.ErrUnavailable
}
