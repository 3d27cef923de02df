// Package evaluate scores a single interview answer against its question.
package evaluate

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/llm"
)

// Heuristic dimension weights. Relevance and depth dominate.
const (
	weightRelevance  = 0.35
	weightDepth      = 0.35
	weightClarity    = 0.15
	weightConfidence = 0.15
)

type Evaluation struct {
	Relevance  float64 `json:"relevance"`
	Depth      float64 `json:"depth"`
	Clarity    float64 `json:"clarity"`
	Confidence float64 `json:"confidence"`
	Overall    float64 `json:"overall"`
	Feedback   string  `json:"feedback"`
}

type Evaluator struct {
	generator llm.TextGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewEvaluator(generator llm.TextGenerator, timeout time.Duration, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{generator: generator, timeout: timeout, logger: logger}
}

// Evaluate scores an answer on four dimensions. The AI path is tried first
// and any failure falls back to the keyword heuristic.
func (e *Evaluator) Evaluate(ctx context.Context, question, answer string) *Evaluation {
	if ev := e.aiEvaluate(ctx, question, answer); ev != nil {
		return ev
	}
	return heuristicEvaluate(question, answer)
}

func (e *Evaluator) aiEvaluate(ctx context.Context, question, answer string) *Evaluation {
	if e.generator == nil {
		return nil
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	raw, err := e.generator.GenerateText(ctx, buildEvaluatePrompt(question, answer))
	if err != nil {
		e.logger.Debug("evaluation failed", zap.Error(err))
		return nil
	}
	jsonText, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return nil
	}

	var parsed Evaluation
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		e.logger.Debug("parse evaluation response", zap.Error(err))
		return nil
	}

	parsed.Relevance = clamp(parsed.Relevance)
	parsed.Depth = clamp(parsed.Depth)
	parsed.Clarity = clamp(parsed.Clarity)
	parsed.Confidence = clamp(parsed.Confidence)
	parsed.Overall = clamp(weightRelevance*parsed.Relevance +
		weightDepth*parsed.Depth +
		weightClarity*parsed.Clarity +
		weightConfidence*parsed.Confidence)
	return &parsed
}

// heuristicEvaluate is the deterministic scorer. Relevance comes from
// keyword overlap with the question, depth from answer length and the
// presence of concrete detail markers, clarity from sentence structure and
// confidence from the absence of hedging.
func heuristicEvaluate(question, answer string) *Evaluation {
	a := strings.TrimSpace(answer)
	aLower := strings.ToLower(a)

	relevance := keywordOverlap(question, aLower)
	depth := depthScore(a, aLower)
	clarity := clarityScore(a)
	confidence := confidenceScore(aLower)

	overall := clamp(weightRelevance*relevance +
		weightDepth*depth +
		weightClarity*clarity +
		weightConfidence*confidence)

	return &Evaluation{
		Relevance:  relevance,
		Depth:      depth,
		Clarity:    clarity,
		Confidence: confidence,
		Overall:    overall,
		Feedback:   heuristicFeedback(overall, depth),
	}
}

func keywordOverlap(question, answerLower string) float64 {
	words := strings.Fields(strings.ToLower(question))
	var total, matched int
	for _, w := range words {
		w = strings.Trim(w, ".,?!:;\"'()")
		if len(w) < 5 {
			continue
		}
		total++
		if strings.Contains(answerLower, w) {
			matched++
		}
	}
	if total == 0 {
		return 60
	}
	return clamp(40 + 60*float64(matched)/float64(total))
}

func depthScore(answer, answerLower string) float64 {
	score := float64(len(answer)) / 8
	if score > 70 {
		score = 70
	}
	for _, marker := range []string{"for example", "because", "we measured", "%", "latency", "trade-off", "tradeoff"} {
		if strings.Contains(answerLower, marker) {
			score += 6
		}
	}
	return clamp(score)
}

func clarityScore(answer string) float64 {
	sentences := 0
	for _, r := range answer {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	switch {
	case sentences == 0:
		return 45
	case sentences <= 2:
		return 65
	case sentences <= 6:
		return 80
	default:
		return 70
	}
}

func confidenceScore(answerLower string) float64 {
	score := 75.0
	for _, hedge := range []string{"i think", "maybe", "not sure", "i guess", "probably", "i don't know"} {
		if strings.Contains(answerLower, hedge) {
			score -= 12
		}
	}
	return clamp(score)
}

func heuristicFeedback(overall, depth float64) string {
	switch {
	case overall >= 75:
		return "Strong answer. Keep grounding claims in concrete examples and metrics."
	case depth < 50:
		return "The answer stays too high level. Add specific examples, numbers and trade-offs."
	default:
		return "Reasonable answer. Tighten the structure and quantify the impact of your work."
	}
}

func buildEvaluatePrompt(question, answer string) string {
	return `You are scoring one interview answer.

Question:
` + question + `

Answer:
` + answer + `

Return STRICT JSON only:
{
  "relevance": 0,
  "depth": 0,
  "clarity": 0,
  "confidence": 0,
  "feedback": "string"
}

All scores are 0-100. Feedback is 1-2 candidate-facing sentences.`
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
