// Package report synthesizes interview reports and career roadmaps from a
// session transcript. Both synthesizers try the AI backend first and fall
// back to deterministic output on any failure.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/llm"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/redis"
)

// reportTranscriptWindow bounds how many trailing turns go into the prompt.
const reportTranscriptWindow = 80

const cacheTTL = 30 * time.Minute

type SkillScore struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Comment string  `json:"comment,omitempty"`
}

type InterviewReport struct {
	InterviewID     int64                  `json:"interview_id"`
	TargetRole      string                 `json:"target_role"`
	Difficulty      models.Difficulty      `json:"difficulty"`
	PersonalityMode models.PersonalityMode `json:"personality_mode"`
	SkillBreakdown  []SkillScore           `json:"skill_breakdown"`
	Strengths       []string               `json:"strengths"`
	Weaknesses      []string               `json:"weaknesses"`
	ImprovementTips []string               `json:"improvement_tips"`
	Summary         string                 `json:"summary,omitempty"`
}

// Synthesizer produces reports and roadmaps on demand; nothing is persisted.
// Reports are cached in redis keyed by session id and turn count so repeated
// reads of an unchanged transcript skip the AI call.
type Synthesizer struct {
	generator llm.TextGenerator
	cache     *redis.Client
	timeout   time.Duration
	logger    *zap.Logger
}

func NewSynthesizer(generator llm.TextGenerator, cache *redis.Client, timeout time.Duration, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{generator: generator, cache: cache, timeout: timeout, logger: logger}
}

// GenerateReport builds a skill breakdown for the session's transcript. The
// AI attempt is all-or-nothing: a malformed response discards the whole
// attempt and the fixed fallback report is returned instead.
func (s *Synthesizer) GenerateReport(ctx context.Context, session *models.InterviewSession, transcript []models.Turn) *InterviewReport {
	cacheKey := fmt.Sprintf("report:%d:%d", session.ID, len(transcript))
	var cached InterviewReport
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached
	}

	rep := s.aiReport(ctx, session, transcript)
	if rep == nil {
		rep = fallbackReport(session)
	}

	if err := s.cache.SetJSON(ctx, cacheKey, rep, cacheTTL); err != nil {
		s.logger.Debug("cache report", zap.Error(err))
	}
	return rep
}

func (s *Synthesizer) aiReport(ctx context.Context, session *models.InterviewSession, transcript []models.Turn) *InterviewReport {
	if s.generator == nil {
		return nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.GenerateText(ctx, buildReportPrompt(session, transcript))
	if err != nil {
		s.logger.Debug("report generation failed", zap.Error(err))
		return nil
	}
	jsonText, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil
	}

	var parsed struct {
		SkillBreakdown  []SkillScore `json:"skill_breakdown"`
		Strengths       []string     `json:"strengths"`
		Weaknesses      []string     `json:"weaknesses"`
		ImprovementTips []string     `json:"improvement_tips"`
		Summary         string       `json:"summary"`
	}
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		s.logger.Debug("parse report response", zap.Error(err))
		return nil
	}

	skills := make([]SkillScore, 0, len(parsed.SkillBreakdown))
	for _, sk := range parsed.SkillBreakdown {
		name := strings.TrimSpace(sk.Name)
		if name == "" {
			name = "General"
		}
		skills = append(skills, SkillScore{
			Name:    name,
			Score:   clampScore(sk.Score),
			Comment: sk.Comment,
		})
	}

	return &InterviewReport{
		InterviewID:     session.ID,
		TargetRole:      session.TargetRole,
		Difficulty:      session.Difficulty,
		PersonalityMode: session.PersonalityMode,
		SkillBreakdown:  skills,
		Strengths:       parsed.Strengths,
		Weaknesses:      parsed.Weaknesses,
		ImprovementTips: parsed.ImprovementTips,
		Summary:         parsed.Summary,
	}
}

// fallbackReport is the deterministic report used whenever the AI path is
// unavailable. It does not inspect the transcript.
func fallbackReport(session *models.InterviewSession) *InterviewReport {
	return &InterviewReport{
		InterviewID:     session.ID,
		TargetRole:      session.TargetRole,
		Difficulty:      session.Difficulty,
		PersonalityMode: session.PersonalityMode,
		SkillBreakdown: []SkillScore{
			{Name: "Problem solving", Score: 75, Comment: "Shows generally structured thinking."},
			{Name: "Communication", Score: 80, Comment: "Explains ideas clearly with some detail."},
			{Name: "Technical depth", Score: 70, Comment: "Covers core concepts; can go deeper on trade-offs."},
			{Name: "Collaboration", Score: 78, Comment: "Uses 'we' appropriately and mentions teamwork."},
		},
		Strengths: []string{
			"Explains previous projects with reasonable clarity.",
			"Shows awareness of trade-offs and constraints in past work.",
		},
		Weaknesses: []string{
			"Answers sometimes stay at a high level without specific metrics.",
			"Could provide more concrete examples of failure modes and mitigations.",
		},
		ImprovementTips: []string{
			"Prepare 2-3 STAR-style examples with clear metrics for impact.",
			"Practice summarizing complex projects in 1-2 minutes before diving into details.",
			"Anticipate follow-up questions about trade-offs, edge cases, and failure scenarios.",
		},
		Summary: "Overall, the candidate presents as solid for the role but should deepen examples with " +
			"more concrete details and quantified outcomes.",
	}
}

func buildReportPrompt(session *models.InterviewSession, transcript []models.Turn) string {
	window := transcript
	if len(window) > reportTranscriptWindow {
		window = window[len(window)-reportTranscriptWindow:]
	}
	entries := make([]map[string]string, 0, len(window))
	for _, t := range window {
		entries = append(entries, map[string]string{
			"role":    string(t.Role),
			"content": t.Content,
		})
	}
	transcriptJSON, _ := json.Marshal(entries)

	return fmt.Sprintf(`You are generating a detailed interview report for a candidate.

Target role: %s
Difficulty: %s
Interviewer personality mode: %s

Conversation transcript (chronological):
%s

Return STRICT JSON only (no markdown, no commentary) with this exact structure:
{
  "skill_breakdown": [
    {
      "name": "string",
      "score": 0,
      "comment": "string"
    }
  ],
  "strengths": ["string"],
  "weaknesses": ["string"],
  "improvement_tips": ["string"],
  "summary": "string"
}

Guidelines:
- Use scores between 0 and 100.
- Skill names should be concise (e.g. 'Problem solving', 'System design', 'Communication').
- Strengths/weaknesses/improvement_tips should be candidate-facing and actionable.`,
		session.TargetRole, session.Difficulty, session.PersonalityMode, transcriptJSON)
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
