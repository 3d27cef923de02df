package interview

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
)

func TestBankDeterministic(t *testing.T) {
	req := QuestionRequest{
		TargetRole:      "Backend Engineer",
		Difficulty:      models.DifficultyMedium,
		PersonalityMode: models.PersonalityFriendly,
		QuestionIndex:   2,
		MaxQuestions:    8,
	}
	var strategy BankStrategy
	first, err := strategy.NextQuestion(context.Background(), req)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := strategy.NextQuestion(context.Background(), req)
		if err != nil {
			t.Fatalf("next question: %v", err)
		}
		if again.Question != first.Question || again.IsFollowUp != first.IsFollowUp {
			t.Fatalf("expected identical output, got %q vs %q", again.Question, first.Question)
		}
	}
}

func TestBankEasyStartsWithIntro(t *testing.T) {
	var strategy BankStrategy
	nq, err := strategy.NextQuestion(context.Background(), QuestionRequest{
		TargetRole:    "Backend Engineer",
		Difficulty:    models.DifficultyEasy,
		QuestionIndex: 0,
		MaxQuestions:  8,
	})
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if !strings.Contains(nq.Question, "summary of your background") {
		t.Fatalf("expected introductory question, got %q", nq.Question)
	}
	if nq.IsFollowUp {
		t.Fatalf("first question must not be a follow-up")
	}
}

func TestBankHardIncludesSystemDesign(t *testing.T) {
	bank := questionBank("Backend Engineer", models.DifficultyHard)
	last := bank[len(bank)-1]
	if !strings.Contains(last, "Design a scalable system") {
		t.Fatalf("expected system design question appended, got %q", last)
	}
}

func TestBankShortAnswerTriggersFollowUp(t *testing.T) {
	var strategy BankStrategy
	nq, err := strategy.NextQuestion(context.Background(), QuestionRequest{
		TargetRole:      "Backend Engineer",
		Difficulty:      models.DifficultyMedium,
		PersonalityMode: models.PersonalityStrict,
		Transcript: []models.Turn{
			{Role: models.RoleAssistant, Content: "Tell me about your API work.", TurnIndex: 0},
			{Role: models.RoleUser, Content: "idk", TurnIndex: 1},
		},
		QuestionIndex: 0,
		MaxQuestions:  8,
	})
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if !nq.IsFollowUp {
		t.Fatalf("expected follow-up for a 3 character answer")
	}
	if !strings.HasPrefix(nq.Question, "Your answer is too shallow. ") {
		t.Fatalf("expected strict prefix, got %q", nq.Question)
	}
	if !strings.Contains(nq.Question, probingQuestion) {
		t.Fatalf("expected probing question, got %q", nq.Question)
	}
}

func TestBankShortMultibyteAnswerTriggersFollowUp(t *testing.T) {
	// 25 characters but 75 bytes; the threshold counts characters.
	answer := strings.Repeat("設計", 12) + "済"
	if got := utf8.RuneCountInString(answer); got != 25 {
		t.Fatalf("test answer must be 25 characters, got %d", got)
	}
	var strategy BankStrategy
	nq, err := strategy.NextQuestion(context.Background(), QuestionRequest{
		TargetRole:      "Backend Engineer",
		Difficulty:      models.DifficultyMedium,
		PersonalityMode: models.PersonalityFriendly,
		Transcript: []models.Turn{
			{Role: models.RoleAssistant, Content: "Tell me about your API work.", TurnIndex: 0},
			{Role: models.RoleUser, Content: answer, TurnIndex: 1},
		},
		QuestionIndex: 1,
		MaxQuestions:  8,
	})
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if !nq.IsFollowUp {
		t.Fatalf("expected follow-up for a 25 character answer")
	}
}

func TestBankHedgingTriggersFollowUp(t *testing.T) {
	long := strings.Repeat("I worked on several services over the years. ", 3)
	answer := long + "Honestly I can't remember the exact throughput numbers though."
	if len(answer) < 60 {
		t.Fatalf("test answer must exceed the short-answer threshold")
	}
	var strategy BankStrategy
	nq, err := strategy.NextQuestion(context.Background(), QuestionRequest{
		TargetRole:      "Backend Engineer",
		Difficulty:      models.DifficultyMedium,
		PersonalityMode: models.PersonalityFriendly,
		Transcript: []models.Turn{
			{Role: models.RoleAssistant, Content: "What throughput did your service handle?", TurnIndex: 0},
			{Role: models.RoleUser, Content: answer, TurnIndex: 1},
		},
		QuestionIndex: 1,
		MaxQuestions:  8,
	})
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if !nq.IsFollowUp {
		t.Fatalf("expected follow-up for a hedging answer")
	}
}

func TestBankSubstantiveAnswerAdvances(t *testing.T) {
	answer := strings.Repeat("I designed the ingestion API, added idempotency keys and cut p99 latency by 40 percent. ", 3)
	var strategy BankStrategy
	nq, err := strategy.NextQuestion(context.Background(), QuestionRequest{
		TargetRole:      "Backend Engineer",
		Difficulty:      models.DifficultyMedium,
		PersonalityMode: models.PersonalityFriendly,
		Transcript: []models.Turn{
			{Role: models.RoleAssistant, Content: "Walk me through an API you built.", TurnIndex: 0},
			{Role: models.RoleUser, Content: answer, TurnIndex: 1},
		},
		QuestionIndex: 1,
		MaxQuestions:  8,
	})
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if nq.IsFollowUp {
		t.Fatalf("substantive answer should not trigger a follow-up")
	}
	if strings.TrimSpace(nq.Question) == "" {
		t.Fatalf("expected a question")
	}
}

func TestBankIndexClampAndWrap(t *testing.T) {
	var strategy BankStrategy
	base := QuestionRequest{
		TargetRole:   "Frontend Developer",
		Difficulty:   models.DifficultyMedium,
		MaxQuestions: 3,
	}

	// Indices at or beyond the ceiling clamp to the last planned slot.
	atCeiling := base
	atCeiling.QuestionIndex = 2
	beyond := base
	beyond.QuestionIndex = 50

	a, err := strategy.NextQuestion(context.Background(), atCeiling)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	b, err := strategy.NextQuestion(context.Background(), beyond)
	if err != nil {
		t.Fatalf("next question: %v", err)
	}
	if a.Question != b.Question {
		t.Fatalf("expected clamped indices to agree, got %q vs %q", a.Question, b.Question)
	}
}

func TestBankRoleSelection(t *testing.T) {
	cases := []struct {
		role string
		want string
	}{
		{"Senior Backend Engineer", "API"},
		{"Frontend Developer", "UI"},
		{"Data Scientist", "model"},
		{"Product Manager", "project"},
	}
	for _, tc := range cases {
		bank := questionBank(tc.role, models.DifficultyMedium)
		if len(bank) == 0 {
			t.Fatalf("empty bank for role %q", tc.role)
		}
		if !strings.Contains(bank[0], tc.want) {
			t.Fatalf("role %q: expected first question to mention %q, got %q", tc.role, tc.want, bank[0])
		}
	}
}

func TestGeneratorFallsThroughToBank(t *testing.T) {
	gen := NewGenerator(NewAIStrategy(nil, 0, nil), BankStrategy{})
	nq, err := gen.Next(context.Background(), QuestionRequest{
		TargetRole:   "Backend Engineer",
		Difficulty:   models.DifficultyMedium,
		MaxQuestions: 8,
	})
	if err != nil {
		t.Fatalf("expected bank fallback, got error: %v", err)
	}
	if strings.TrimSpace(nq.Question) == "" {
		t.Fatalf("expected a question from the bank")
	}
}
