package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/llm"
)

type RoadmapItem struct {
	Skill         string   `json:"skill"`
	CurrentLevel  string   `json:"current_level"`
	TargetLevel   string   `json:"target_level"`
	EstimatedTime string   `json:"estimated_time"`
	Resources     []string `json:"resources"`
}

type TimelinePhase struct {
	Phase string   `json:"phase"`
	Focus []string `json:"focus"`
	Weeks int      `json:"weeks"`
}

type CareerRoadmap struct {
	InterviewID int64           `json:"interview_id"`
	TargetRole  string          `json:"target_role"`
	Items       []RoadmapItem   `json:"items"`
	Timeline    []TimelinePhase `json:"timeline"`
	Summary     string          `json:"summary,omitempty"`
}

// GenerateRoadmap derives a study roadmap from a report. The AI path gets
// the skill breakdown as input; the fallback applies fixed thresholds to
// the report's scores.
func (s *Synthesizer) GenerateRoadmap(ctx context.Context, rep *InterviewReport) *CareerRoadmap {
	rm := s.aiRoadmap(ctx, rep)
	if rm == nil {
		rm = fallbackRoadmap(rep)
	}
	return rm
}

func (s *Synthesizer) aiRoadmap(ctx context.Context, rep *InterviewReport) *CareerRoadmap {
	if s.generator == nil {
		return nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.GenerateText(ctx, buildRoadmapPrompt(rep))
	if err != nil {
		s.logger.Debug("roadmap generation failed", zap.Error(err))
		return nil
	}
	jsonText, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil
	}

	var parsed struct {
		Items    []RoadmapItem   `json:"items"`
		Timeline []TimelinePhase `json:"timeline"`
		Summary  string          `json:"summary"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		s.logger.Debug("parse roadmap response", zap.Error(err))
		return nil
	}
	if len(parsed.Items) == 0 {
		return nil
	}
	timeline := parsed.Timeline
	if len(timeline) == 0 {
		timeline = fallbackRoadmap(rep).Timeline
	}

	return &CareerRoadmap{
		InterviewID: rep.InterviewID,
		TargetRole:  rep.TargetRole,
		Items:       parsed.Items,
		Timeline:    timeline,
		Summary:     parsed.Summary,
	}
}

// fallbackRoadmap turns report scores into roadmap items with fixed rules:
// skills at 80 or above are considered solid and excluded, scores under 60
// get an eight week estimate, the rest four weeks. If every skill clears
// the bar a single stretch item is synthesized so the roadmap is never
// empty.
func fallbackRoadmap(rep *InterviewReport) *CareerRoadmap {
	var items []RoadmapItem
	for _, sk := range rep.SkillBreakdown {
		if sk.Score >= 80 {
			continue
		}
		weeks := "4 weeks"
		if sk.Score < 60 {
			weeks = "8 weeks"
		}
		level := "solid"
		if sk.Score < 70 {
			level = "developing"
		}
		items = append(items, RoadmapItem{
			Skill:         sk.Name,
			CurrentLevel:  level,
			TargetLevel:   "strong",
			EstimatedTime: weeks,
			Resources: []string{
				fmt.Sprintf("Targeted practice problems for %s", strings.ToLower(sk.Name)),
				"Mock interviews focusing on this skill",
			},
		})
	}
	if len(items) == 0 {
		items = append(items, RoadmapItem{
			Skill:         "Advanced role-specific skills",
			CurrentLevel:  "solid",
			TargetLevel:   "expert",
			EstimatedTime: "6 weeks",
			Resources: []string{
				fmt.Sprintf("Identify advanced topics for %s and complete one course", rep.TargetRole),
				"Mentor or teach others to solidify knowledge",
			},
		})
	}

	timeline := buildTimeline(items)

	return &CareerRoadmap{
		InterviewID: rep.InterviewID,
		TargetRole:  rep.TargetRole,
		Items:       items,
		Timeline:    timeline,
		Summary: fmt.Sprintf("Focus on the %d highlighted skill areas over the coming weeks, "+
			"revisiting mock interviews to measure progress.", len(items)),
	}
}

// buildTimeline splits items into up to three phases: the weakest skill
// first, then the next two, then everything left.
func buildTimeline(items []RoadmapItem) []TimelinePhase {
	var timeline []TimelinePhase
	if len(items) >= 1 {
		timeline = append(timeline, TimelinePhase{
			Phase: "Foundation (weeks 1-4)",
			Focus: skillNames(items[:1]),
			Weeks: 4,
		})
	}
	if len(items) >= 2 {
		end := 3
		if end > len(items) {
			end = len(items)
		}
		timeline = append(timeline, TimelinePhase{
			Phase: "Deepening (weeks 5-8)",
			Focus: skillNames(items[1:end]),
			Weeks: 4,
		})
	}
	if len(items) >= 4 {
		timeline = append(timeline, TimelinePhase{
			Phase: "Polish & interview practice (weeks 9-12)",
			Focus: skillNames(items[3:]),
			Weeks: 4,
		})
	}
	return timeline
}

func skillNames(items []RoadmapItem) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Skill)
	}
	return names
}

func buildRoadmapPrompt(rep *InterviewReport) string {
	skillsJSON, _ := json.Marshal(rep.SkillBreakdown)
	return fmt.Sprintf(`You are a career coach building a personalized study roadmap.

Target role: %s
Skill breakdown from a recent mock interview (JSON):
%s

Return STRICT JSON only with this structure:
{
  "items": [
    {
      "skill": "string",
      "current_level": "string",
      "target_level": "string",
      "estimated_time": "string",
      "resources": ["string"]
    }
  ],
  "timeline": [
    {
      "phase": "string",
      "focus": ["string"],
      "weeks": 0
    }
  ],
  "summary": "string"
}

Guidelines:
- Prioritize the weakest skills first.
- Keep estimates realistic (weeks, not days).
- Resources should be concrete categories of practice, not URLs.`,
		rep.TargetRole, skillsJSON)
}
