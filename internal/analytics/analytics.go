// Package analytics aggregates a user's interview history into progress
// views across sessions.
package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/interview"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/report"
)

// trendThreshold is the score delta below which progress counts as flat.
const trendThreshold = 3

type HistoryItem struct {
	InterviewID int64                  `json:"interview_id"`
	TargetRole  string                 `json:"target_role"`
	Difficulty  models.Difficulty      `json:"difficulty"`
	Personality models.PersonalityMode `json:"personality_mode"`
	Status      string                 `json:"status"`
	TurnCount   int                    `json:"turn_count"`
	StartedAt   time.Time              `json:"started_at"`
	EndedAt     *time.Time             `json:"ended_at,omitempty"`
}

type SkillProgress struct {
	Skill      string  `json:"skill"`
	FirstScore float64 `json:"first_score"`
	LastScore  float64 `json:"last_score"`
	Trend      string  `json:"trend"`
}

type ProgressSummary struct {
	Interviews   int             `json:"interviews"`
	Skills       []SkillProgress `json:"skills"`
	OverallTrend string          `json:"overall_trend"`
}

type Service struct {
	store       *interview.Store
	synthesizer *report.Synthesizer
	logger      *zap.Logger
}

func NewService(store *interview.Store, synthesizer *report.Synthesizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, synthesizer: synthesizer, logger: logger}
}

// History lists the user's sessions oldest first with their turn counts.
func (s *Service) History(ctx context.Context, userID int64) ([]HistoryItem, error) {
	sessions, err := s.store.ListSessionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]HistoryItem, 0, len(sessions))
	for _, sess := range sessions {
		turns, err := s.store.ListTurns(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, HistoryItem{
			InterviewID: sess.ID,
			TargetRole:  sess.TargetRole,
			Difficulty:  sess.Difficulty,
			Personality: sess.PersonalityMode,
			Status:      sess.Status,
			TurnCount:   len(turns),
			StartedAt:   sess.StartedAt,
			EndedAt:     sess.EndedAt,
		})
	}
	return items, nil
}

// SkillProgress compares report scores between the user's first and most
// recent sessions. Deltas within trendThreshold points count as flat.
func (s *Service) SkillProgress(ctx context.Context, userID int64) (*ProgressSummary, error) {
	sessions, err := s.store.ListSessionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return &ProgressSummary{Skills: []SkillProgress{}, OverallTrend: "flat"}, nil
	}

	first, err := s.sessionReport(ctx, sessions[0])
	if err != nil {
		return nil, err
	}
	last := first
	if len(sessions) > 1 {
		last, err = s.sessionReport(ctx, sessions[len(sessions)-1])
		if err != nil {
			return nil, err
		}
	}

	firstScores := map[string]float64{}
	for _, sk := range first.SkillBreakdown {
		firstScores[sk.Name] = sk.Score
	}

	var skills []SkillProgress
	var firstSum, lastSum float64
	for _, sk := range last.SkillBreakdown {
		start, ok := firstScores[sk.Name]
		if !ok {
			start = sk.Score
		}
		skills = append(skills, SkillProgress{
			Skill:      sk.Name,
			FirstScore: start,
			LastScore:  sk.Score,
			Trend:      trend(start, sk.Score),
		})
		firstSum += start
		lastSum += sk.Score
	}

	overall := "flat"
	if len(last.SkillBreakdown) > 0 {
		n := float64(len(last.SkillBreakdown))
		overall = trend(firstSum/n, lastSum/n)
	}

	return &ProgressSummary{
		Interviews:   len(sessions),
		Skills:       skills,
		OverallTrend: overall,
	}, nil
}

func (s *Service) sessionReport(ctx context.Context, sess *models.InterviewSession) (*report.InterviewReport, error) {
	turns, err := s.store.ListTurns(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return s.synthesizer.GenerateReport(ctx, sess, turns), nil
}

func trend(first, last float64) string {
	switch {
	case last-first > trendThreshold:
		return "up"
	case first-last > trendThreshold:
		return "down"
	default:
		return "flat"
	}
}
