// Package ats scores a resume against a job description the way an
// applicant tracking system would.
package ats

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/llm"
)

const (
	weightKeywords   = 0.6
	weightFormatting = 0.4
)

const resumeLimit = 8000

type Result struct {
	Score           float64  `json:"score"`
	KeywordScore    float64  `json:"keyword_score"`
	FormattingScore float64  `json:"formatting_score"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions"`
}

type Scorer struct {
	generator llm.TextGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewScorer(generator llm.TextGenerator, timeout time.Duration, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{generator: generator, timeout: timeout, logger: logger}
}

// Score rates the resume for the job description, AI first with a
// deterministic keyword heuristic as fallback.
func (s *Scorer) Score(ctx context.Context, resume, jobDescription string) *Result {
	resume = llm.TruncateRunes(resume, resumeLimit)
	if r := s.aiScore(ctx, resume, jobDescription); r != nil {
		return r
	}
	return heuristicScore(resume, jobDescription)
}

func (s *Scorer) aiScore(ctx context.Context, resume, jobDescription string) *Result {
	if s.generator == nil {
		return nil
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.GenerateText(ctx, buildATSPrompt(resume, jobDescription))
	if err != nil {
		s.logger.Debug("ats scoring failed", zap.Error(err))
		return nil
	}
	jsonText, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil
	}

	var parsed Result
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		s.logger.Debug("parse ats response", zap.Error(err))
		return nil
	}

	parsed.KeywordScore = clamp(parsed.KeywordScore)
	parsed.FormattingScore = clamp(parsed.FormattingScore)
	parsed.Score = clamp(weightKeywords*parsed.KeywordScore + weightFormatting*parsed.FormattingScore)
	return &parsed
}

// heuristicScore compares meaningful job description words against the
// resume and checks a handful of formatting signals.
func heuristicScore(resume, jobDescription string) *Result {
	resumeLower := strings.ToLower(resume)

	seen := map[string]bool{}
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(jobDescription)) {
		w = strings.Trim(w, ".,?!:;\"'()/")
		if len(w) < 4 || seen[w] || stopWords[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}

	var missing []string
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(resumeLower, kw) {
			matched++
		} else if len(missing) < 10 {
			missing = append(missing, kw)
		}
	}
	keywordScore := 50.0
	if len(keywords) > 0 {
		keywordScore = 100 * float64(matched) / float64(len(keywords))
	}

	formattingScore := formattingHeuristic(resume, resumeLower)

	var suggestions []string
	if len(missing) > 0 {
		suggestions = append(suggestions, "Work the missing keywords into your experience bullets where they genuinely apply.")
	}
	if formattingScore < 70 {
		suggestions = append(suggestions, "Add clear section headers, bullet points and quantified achievements.")
	}
	if len(suggestions) == 0 {
		suggestions = append(suggestions, "The resume already matches the description well. Tailor the summary line to this role.")
	}

	return &Result{
		Score:           clamp(weightKeywords*keywordScore + weightFormatting*formattingScore),
		KeywordScore:    clamp(keywordScore),
		FormattingScore: clamp(formattingScore),
		MissingKeywords: missing,
		Suggestions:     suggestions,
	}
}

func formattingHeuristic(resume, resumeLower string) float64 {
	score := 40.0
	if strings.Contains(resume, "\n") {
		score += 10
	}
	for _, section := range []string{"experience", "education", "skills", "projects"} {
		if strings.Contains(resumeLower, section) {
			score += 10
		}
	}
	if strings.ContainsAny(resume, "-•*") {
		score += 10
	}
	if strings.ContainsAny(resume, "0123456789") {
		score += 10
	}
	return clamp(score)
}

var stopWords = map[string]bool{
	"with": true, "that": true, "this": true, "have": true, "from": true,
	"will": true, "your": true, "them": true, "they": true, "were": true,
	"been": true, "their": true, "about": true, "would": true, "should": true,
	"work": true, "team": true, "role": true, "must": true, "years": true,
	"strong": true, "ability": true, "experience": true, "knowledge": true,
}

func buildATSPrompt(resume, jobDescription string) string {
	return `You are an applicant tracking system scoring a resume against a job description.

Job description:
` + jobDescription + `

Resume:
` + resume + `

Return STRICT JSON only:
{
  "keyword_score": 0,
  "formatting_score": 0,
  "missing_keywords": ["string"],
  "suggestions": ["string"]
}

Scores are 0-100. List at most 10 missing keywords. Suggestions are concrete edits.`
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
