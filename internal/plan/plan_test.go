package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
)

type mockGenerator struct {
	response string
	err      error
}

func (m *mockGenerator) GenerateText(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func allocationTotal(alloc []TimeAllocation) int {
	total := 0
	for _, a := range alloc {
		total += a.Percent
	}
	return total
}

func TestFallbackPlanPerDifficulty(t *testing.T) {
	gen := NewGenerator(nil, 0, nil)
	ctx := context.Background()

	medium := gen.Generate(ctx, "Backend Engineer", models.DifficultyMedium)
	if len(medium.Rounds) != 3 {
		t.Fatalf("expected 3 rounds for medium, got %d", len(medium.Rounds))
	}

	hard := gen.Generate(ctx, "Backend Engineer", models.DifficultyHard)
	if len(hard.Rounds) != 4 {
		t.Fatalf("expected system design round added for hard, got %d rounds", len(hard.Rounds))
	}
	if hard.Rounds[3].Name != "System design" {
		t.Fatalf("expected last hard round to be system design, got %q", hard.Rounds[3].Name)
	}

	easy := gen.Generate(ctx, "Backend Engineer", models.DifficultyEasy)
	if easy.TimeAllocation[0].Category != "Fundamentals" || easy.TimeAllocation[0].Percent < medium.TimeAllocation[0].Percent {
		t.Fatalf("expected easy plans to weight fundamentals heavier: %+v", easy.TimeAllocation)
	}
}

func TestFallbackAllocationSumsTo100(t *testing.T) {
	gen := NewGenerator(nil, 0, nil)
	for _, d := range []models.Difficulty{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		p := gen.Generate(context.Background(), "Backend Engineer", d)
		if got := allocationTotal(p.TimeAllocation); got != 100 {
			t.Fatalf("difficulty %s: allocation sums to %d", d, got)
		}
	}
}

func TestNormalizeAllocation(t *testing.T) {
	out := normalizeAllocation([]TimeAllocation{
		{Category: "A", Percent: 30},
		{Category: "B", Percent: 30},
		{Category: "C", Percent: 30},
	})
	if got := allocationTotal(out); got != 100 {
		t.Fatalf("expected normalized total 100, got %d", got)
	}

	zero := normalizeAllocation([]TimeAllocation{
		{Category: "A"},
		{Category: "B"},
		{Category: "C"},
	})
	if got := allocationTotal(zero); got != 100 {
		t.Fatalf("expected even split to total 100, got %d", got)
	}
}

func TestAIPlanNormalized(t *testing.T) {
	gen := NewGenerator(&mockGenerator{response: `{
		"rounds":[{"name":"Tech","focus":"coding","categories":["algorithms"],"duration_min":60}],
		"time_allocation":[{"category":"Coding","percent":60},{"category":"Behavioral","percent":60}],
		"tips":["practice daily"]}`}, 0, nil)

	p := gen.Generate(context.Background(), "Backend Engineer", models.DifficultyMedium)
	if len(p.Rounds) != 1 || p.Rounds[0].Name != "Tech" {
		t.Fatalf("expected AI rounds, got %+v", p.Rounds)
	}
	if got := allocationTotal(p.TimeAllocation); got != 100 {
		t.Fatalf("expected AI allocation normalized to 100, got %d", got)
	}
}

func TestAIFailureFallsBack(t *testing.T) {
	gen := NewGenerator(&mockGenerator{err: errors.New("boom")}, 0, nil)
	p := gen.Generate(context.Background(), "Backend Engineer", models.DifficultyMedium)
	if len(p.Rounds) != 3 {
		t.Fatalf("expected fallback plan, got %+v", p)
	}
}
