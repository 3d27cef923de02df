// Package plan generates structured interview preparation plans for a
// target role and difficulty.
package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/llm"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
)

type Round struct {
	Name        string   `json:"name"`
	Focus       string   `json:"focus"`
	Categories  []string `json:"categories"`
	DurationMin int      `json:"duration_min"`
}

type TimeAllocation struct {
	Category string `json:"category"`
	Percent  int    `json:"percent"`
}

type InterviewPlan struct {
	TargetRole     string            `json:"target_role"`
	Difficulty     models.Difficulty `json:"difficulty"`
	Rounds         []Round           `json:"rounds"`
	TimeAllocation []TimeAllocation  `json:"time_allocation"`
	Tips           []string          `json:"tips"`
}

type Generator struct {
	generator llm.TextGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewGenerator(generator llm.TextGenerator, timeout time.Duration, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{generator: generator, timeout: timeout, logger: logger}
}

// Generate returns a preparation plan. The AI path is attempted first; any
// failure falls back to a fixed per-difficulty template.
func (g *Generator) Generate(ctx context.Context, targetRole string, difficulty models.Difficulty) *InterviewPlan {
	if p := g.aiPlan(ctx, targetRole, difficulty); p != nil {
		return p
	}
	return fallbackPlan(targetRole, difficulty)
}

func (g *Generator) aiPlan(ctx context.Context, targetRole string, difficulty models.Difficulty) *InterviewPlan {
	if g.generator == nil {
		return nil
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	raw, err := g.generator.GenerateText(ctx, buildPlanPrompt(targetRole, difficulty))
	if err != nil {
		g.logger.Debug("plan generation failed", zap.Error(err))
		return nil
	}
	jsonText, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil
	}

	var parsed struct {
		Rounds         []Round          `json:"rounds"`
		TimeAllocation []TimeAllocation `json:"time_allocation"`
		Tips           []string         `json:"tips"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		g.logger.Debug("parse plan response", zap.Error(err))
		return nil
	}
	if len(parsed.Rounds) == 0 {
		return nil
	}

	return &InterviewPlan{
		TargetRole:     targetRole,
		Difficulty:     difficulty,
		Rounds:         parsed.Rounds,
		TimeAllocation: normalizeAllocation(parsed.TimeAllocation),
		Tips:           parsed.Tips,
	}
}

// fallbackPlan is the deterministic template used without an AI backend.
// Harder difficulties add rounds and shift time toward system design.
func fallbackPlan(targetRole string, difficulty models.Difficulty) *InterviewPlan {
	rounds := []Round{
		{
			Name:        "Screening",
			Focus:       "Resume walkthrough and motivation",
			Categories:  []string{"background", "communication"},
			DurationMin: 30,
		},
		{
			Name:        "Technical deep dive",
			Focus:       fmt.Sprintf("Core skills for a %s", targetRole),
			Categories:  []string{"fundamentals", "problem solving"},
			DurationMin: 60,
		},
		{
			Name:        "Behavioral",
			Focus:       "Past projects, teamwork and conflict handling",
			Categories:  []string{"behavioral", "collaboration"},
			DurationMin: 45,
		},
	}
	allocation := []TimeAllocation{
		{Category: "Fundamentals", Percent: 40},
		{Category: "Problem solving", Percent: 30},
		{Category: "Behavioral", Percent: 30},
	}

	switch difficulty {
	case models.DifficultyHard:
		rounds = append(rounds, Round{
			Name:        "System design",
			Focus:       "Designing scalable systems end to end",
			Categories:  []string{"architecture", "trade-offs"},
			DurationMin: 60,
		})
		allocation = []TimeAllocation{
			{Category: "Fundamentals", Percent: 25},
			{Category: "Problem solving", Percent: 30},
			{Category: "System design", Percent: 30},
			{Category: "Behavioral", Percent: 15},
		}
	case models.DifficultyEasy:
		allocation = []TimeAllocation{
			{Category: "Fundamentals", Percent: 50},
			{Category: "Problem solving", Percent: 25},
			{Category: "Behavioral", Percent: 25},
		}
	}

	return &InterviewPlan{
		TargetRole:     targetRole,
		Difficulty:     difficulty,
		Rounds:         rounds,
		TimeAllocation: normalizeAllocation(allocation),
		Tips: []string{
			"Rehearse a two minute self introduction tailored to the role.",
			"Review the most recent projects on your resume in STAR format.",
			"Do at least one timed mock interview per round type before the real one.",
		},
	}
}

// normalizeAllocation scales percentages so they sum to 100, dumping any
// rounding remainder on the first entry.
func normalizeAllocation(alloc []TimeAllocation) []TimeAllocation {
	if len(alloc) == 0 {
		return alloc
	}
	total := 0
	for _, a := range alloc {
		if a.Percent > 0 {
			total += a.Percent
		}
	}
	if total == 0 {
		even := 100 / len(alloc)
		out := make([]TimeAllocation, len(alloc))
		for i, a := range alloc {
			out[i] = TimeAllocation{Category: a.Category, Percent: even}
		}
		out[0].Percent += 100 - even*len(alloc)
		return out
	}

	out := make([]TimeAllocation, len(alloc))
	sum := 0
	for i, a := range alloc {
		p := a.Percent
		if p < 0 {
			p = 0
		}
		scaled := p * 100 / total
		out[i] = TimeAllocation{Category: a.Category, Percent: scaled}
		sum += scaled
	}
	out[0].Percent += 100 - sum
	return out
}

func buildPlanPrompt(targetRole string, difficulty models.Difficulty) string {
	return fmt.Sprintf(`You are designing an interview preparation plan.

Target role: %s
Difficulty level: %s

Return STRICT JSON only with this structure:
{
  "rounds": [
    {
      "name": "string",
      "focus": "string",
      "categories": ["string"],
      "duration_min": 0
    }
  ],
  "time_allocation": [
    {
      "category": "string",
      "percent": 0
    }
  ],
  "tips": ["string"]
}

Guidelines:
- 3 to 5 rounds appropriate for the difficulty.
- time_allocation percentages should sum to roughly 100.
- Tips should be concrete and role specific.`, targetRole, difficulty)
}
