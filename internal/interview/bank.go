package interview

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
)

// BankStrategy is the deterministic question source. It is pure: identical
// inputs always produce identical question text, so it can back the generator
// chain when no AI provider is configured or reachable.
type BankStrategy struct{}

const probingQuestion = "What exactly did you do, and what was the measurable impact?"

var hedgingPhrases = []string{
	"i don't know",
	"not sure",
	"no idea",
	"can't remember",
}

var followUpPrefixes = map[models.PersonalityMode]string{
	models.PersonalityStrict:   "Your answer is too shallow. ",
	models.PersonalityFriendly: "Thanks — could you expand a bit? ",
	models.PersonalityStress:   "That's vague. ",
}

func (BankStrategy) NextQuestion(_ context.Context, req QuestionRequest) (*NextQuestion, error) {
	if answer, ok := req.lastAnswer(); ok && needsFollowUp(answer) {
		prefix := followUpPrefixes[req.PersonalityMode]
		return &NextQuestion{
			Question:   prefix + probingQuestion,
			IsFollowUp: true,
		}, nil
	}

	bank := questionBank(req.TargetRole, req.Difficulty)
	idx := req.QuestionIndex
	if max := req.MaxQuestions - 1; idx > max {
		idx = max
	}
	if idx < 0 {
		idx = 0
	}
	return &NextQuestion{Question: bank[idx%len(bank)]}, nil
}

// needsFollowUp flags weak answers: very short ones or ones leaning on
// hedging phrases.
func needsFollowUp(answer string) bool {
	a := strings.ToLower(strings.TrimSpace(answer))
	if utf8.RuneCountInString(a) < 60 {
		return true
	}
	for _, phrase := range hedgingPhrases {
		if strings.Contains(a, phrase) {
			return true
		}
	}
	return false
}

// questionBank selects the ordered question list for the role, with
// difficulty adjustments: hard appends a system-design question, easy
// prepends an introductory one.
func questionBank(targetRole string, difficulty models.Difficulty) []string {
	role := strings.ToLower(targetRole)

	var base []string
	switch {
	case strings.Contains(role, "backend") || strings.Contains(role, "api"):
		base = []string{
			"Walk me through an API you built end-to-end. What were the main trade-offs?",
			"How do you design pagination and filtering for a high-traffic endpoint?",
			"Explain how you would implement authentication and authorization for a new service.",
			"What are common database indexing pitfalls you've seen, and how do you diagnose them?",
			"How do you handle idempotency for write endpoints (e.g., payments, retries)?",
			"Describe a production incident you handled. What was the root cause and what did you change afterward?",
		}
	case strings.Contains(role, "frontend"):
		base = []string{
			"Describe a complex UI you built. How did you manage state and performance?",
			"How do you structure a component library for scale and consistency?",
			"Explain strategies for optimizing bundle size and runtime performance.",
			"How do you test UI logic effectively (unit vs integration vs e2e)?",
			"Tell me about an accessibility issue you fixed and the approach you used.",
		}
	case strings.Contains(role, "data") || strings.Contains(role, "ml"):
		base = []string{
			"Walk through a project where you improved a model or pipeline. What changed and why?",
			"How do you detect data drift and decide when to retrain?",
			"Explain precision/recall trade-offs for an imbalanced classification problem.",
			"How do you ensure reproducibility in experiments and deployments?",
			"Describe how you'd design feature stores and offline/online parity.",
		}
	default:
		base = []string{
			"Tell me about a project you're proud of. What was your specific impact?",
			"How do you approach ambiguous requirements and align stakeholders?",
			"Describe a difficult bug you fixed. How did you narrow it down?",
			"How do you prioritize tasks under tight deadlines?",
			"What does 'quality' mean to you in software delivery?",
		}
	}

	switch difficulty {
	case models.DifficultyHard:
		base = append(base, "Design a scalable system for this role. Include data model, APIs, caching, and failure modes.")
	case models.DifficultyEasy:
		base = append([]string{"Give me a quick summary of your background and why you're interested in this role."}, base...)
	}

	return base
}
