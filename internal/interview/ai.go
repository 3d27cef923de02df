package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/llm"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/logger"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
)

const (
	// resumeSnippetLimit bounds the resume text embedded in prompts.
	resumeSnippetLimit = 8000
	// transcriptWindow bounds how many trailing turns the prompt carries.
	transcriptWindow = 12
)

// AIStrategy asks the configured model for the next question. Every failure
// mode (missing backend, transport error, unparseable or empty output)
// collapses into llm.ErrUnavailable so the caller falls through to the bank.
type AIStrategy struct {
	generator llm.TextGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewAIStrategy(generator llm.TextGenerator, timeout time.Duration, logger *zap.Logger) *AIStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIStrategy{generator: generator, timeout: timeout, logger: logger}
}

func (s *AIStrategy) NextQuestion(ctx context.Context, req QuestionRequest) (*NextQuestion, error) {
	if s == nil || s.generator == nil {
		return nil, llm.ErrUnavailable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.GenerateText(ctx, buildQuestionPrompt(req))
	if err != nil {
		s.logger.Debug("question generation failed", zap.Error(err))
		return nil, llm.ErrUnavailable
	}

	jsonText, err := llm.ExtractJSONObject(raw)
	if err != nil {
		s.logger.Debug("no json object in question response",
			zap.String("preview", logger.Truncate(raw, 120)))
		return nil, llm.ErrUnavailable
	}

	var nq NextQuestion
	if err := json.Unmarshal([]byte(jsonText), &nq); err != nil {
		s.logger.Debug("parse question response", zap.Error(err))
		return nil, llm.ErrUnavailable
	}
	nq.Question = strings.TrimSpace(nq.Question)
	if nq.Question == "" {
		return nil, llm.ErrUnavailable
	}
	return &nq, nil
}

func buildQuestionPrompt(req QuestionRequest) string {
	window := req.Transcript
	if len(window) > transcriptWindow {
		window = window[len(window)-transcriptWindow:]
	}
	transcript := make([]map[string]string, 0, len(window))
	for _, t := range window {
		transcript = append(transcript, map[string]string{
			"role":    string(t.Role),
			"content": t.Content,
		})
	}
	transcriptJSON, _ := json.Marshal(transcript)

	return fmt.Sprintf(`You are conducting a live interview.
Personality mode instructions: %s

Target role: %s
Difficulty: %s
Question number: %d of %d

Candidate resume (snippet):
"""%s"""

Conversation transcript (most recent last):
%s

Return STRICT JSON only:
{
  "question": "string",
  "is_follow_up": true|false
}

Guidelines:
- Ask one question only.
- If the last candidate answer is weak/short, produce a follow-up question.
- Otherwise produce the next best question for the role and difficulty.`,
		personalityInstructions(req.PersonalityMode),
		req.TargetRole,
		req.Difficulty,
		req.QuestionIndex+1,
		req.MaxQuestions,
		llm.TruncateRunes(req.ResumeText, resumeSnippetLimit),
		transcriptJSON,
	)
}

func personalityInstructions(mode models.PersonalityMode) string {
	switch mode {
	case models.PersonalityStrict:
		return "Be concise, direct, and high-standard. Challenge weak reasoning. No fluff."
	case models.PersonalityStress:
		return "Apply pressure with fast follow-ups and tight constraints. Keep it professional, not abusive."
	default:
		return "Be supportive and collaborative. Give short guidance in the question if needed."
	}
}
