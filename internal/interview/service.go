package interview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
)

const (
	// submitMaxQuestions is the fixed planning ceiling passed to the
	// generator on every submit, independent of the ceiling chosen at start.
	submitMaxQuestions = 25

	minResumeLength = 50
	minRoleLength   = 2
	maxAnswerLength = 20000
)

// Service owns the session lifecycle: it is the only writer of session state
// and turn rows. Mutations for one session are serialized through a
// per-session lock so turn indices stay gap-free under concurrent requests.
type Service struct {
	store     *Store
	generator *Generator
	locks     *sessionLocks
	logger    *zap.Logger

	defaultMaxQuestions int
}

func NewService(store *Store, generator *Generator, defaultMaxQuestions int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultMaxQuestions <= 0 {
		defaultMaxQuestions = 8
	}
	return &Service{
		store:               store,
		generator:           generator,
		locks:               newSessionLocks(),
		logger:              logger,
		defaultMaxQuestions: defaultMaxQuestions,
	}
}

// Store exposes the underlying persistence for read-only collaborators
// (reports, analytics).
func (s *Service) Store() *Store {
	return s.store
}

type StartRequest struct {
	ResumeText      string
	TargetRole      string
	Difficulty      models.Difficulty
	PersonalityMode models.PersonalityMode
	MaxQuestions    int
}

type StartResult struct {
	Session       *models.InterviewSession
	FirstQuestion string
	QuestionIndex int
}

type SubmitResult struct {
	SessionID     int64
	NextQuestion  string
	QuestionIndex int
	IsFollowUp    bool
}

type EndResult struct {
	SessionID  int64
	Status     string
	TotalTurns int
	EndedAt    *time.Time
}

// Start creates a session, asks the generator for question zero against an
// empty transcript, and records it as turn 0. The question index stays at 0
// until the first substantive answer advances it.
func (s *Service) Start(ctx context.Context, userID *int64, req StartRequest) (*StartResult, error) {
	if err := validateStart(&req, s.defaultMaxQuestions); err != nil {
		return nil, err
	}

	session, err := s.store.CreateSession(ctx, userID, req.ResumeText, req.TargetRole, req.Difficulty, req.PersonalityMode)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(session.ID)
	defer unlock()

	nq, err := s.generator.Next(ctx, QuestionRequest{
		ResumeText:      session.ResumeText,
		TargetRole:      session.TargetRole,
		Difficulty:      session.Difficulty,
		PersonalityMode: session.PersonalityMode,
		Transcript:      nil,
		QuestionIndex:   0,
		MaxQuestions:    req.MaxQuestions,
	})
	if err != nil {
		return nil, fmt.Errorf("generate first question: %w", err)
	}

	if _, err := s.store.AppendTurn(ctx, session.ID, models.RoleAssistant, nq.Question, 0); err != nil {
		return nil, err
	}

	s.logger.Info("interview started",
		zap.Int64("session_id", session.ID),
		zap.String("target_role", session.TargetRole),
		zap.String("difficulty", string(session.Difficulty)),
	)
	return &StartResult{Session: session, FirstQuestion: nq.Question, QuestionIndex: 0}, nil
}

// Submit records the candidate's answer as the next turn, generates the next
// question from the full transcript, advances the question index unless the
// result is a follow-up, and records the question as the turn after that.
func (s *Service) Submit(ctx context.Context, callerID int64, sessionID int64, answer string) (*SubmitResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, errors.New("answer is required")
	}
	if len(answer) > maxAnswerLength {
		return nil, errors.New("answer is too long")
	}

	unlock := s.locks.acquire(sessionID)
	defer unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Active() {
		return nil, ErrSessionEnded
	}
	if err := checkOwnership(session, callerID); err != nil {
		return nil, err
	}

	turns, err := s.store.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	answerTurn, err := s.store.AppendTurn(ctx, sessionID, models.RoleUser, answer, len(turns))
	if err != nil {
		return nil, err
	}
	transcript := append(turns, *answerTurn)

	nq, err := s.generator.Next(ctx, QuestionRequest{
		ResumeText:      session.ResumeText,
		TargetRole:      session.TargetRole,
		Difficulty:      session.Difficulty,
		PersonalityMode: session.PersonalityMode,
		Transcript:      transcript,
		QuestionIndex:   session.QuestionIndex,
		MaxQuestions:    submitMaxQuestions,
	})
	if err != nil {
		return nil, fmt.Errorf("generate next question: %w", err)
	}

	// Follow-ups do not advance the interview; new questions do.
	newIndex := session.QuestionIndex
	if !nq.IsFollowUp {
		newIndex++
	}
	if err := s.store.SetQuestionIndex(ctx, sessionID, newIndex); err != nil {
		return nil, err
	}
	if _, err := s.store.AppendTurn(ctx, sessionID, models.RoleAssistant, nq.Question, len(transcript)); err != nil {
		return nil, err
	}

	s.logger.Debug("answer submitted",
		zap.Int64("session_id", sessionID),
		zap.Int("question_index", newIndex),
		zap.Bool("is_follow_up", nq.IsFollowUp),
	)
	return &SubmitResult{
		SessionID:     sessionID,
		NextQuestion:  nq.Question,
		QuestionIndex: newIndex,
		IsFollowUp:    nq.IsFollowUp,
	}, nil
}

// End moves a session to its terminal state. Ending an already ended session
// is idempotent: the stored timestamp is returned unchanged.
func (s *Service) End(ctx context.Context, callerID int64, sessionID int64) (*EndResult, error) {
	unlock := s.locks.acquire(sessionID)
	defer unlock()

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkOwnership(session, callerID); err != nil {
		return nil, err
	}

	if session.Active() {
		endedAt := time.Now().UTC()
		if err := s.store.EndSession(ctx, sessionID, endedAt); err != nil {
			return nil, err
		}
		session.Status = models.SessionEnded
		session.EndedAt = &endedAt
		s.logger.Info("interview ended", zap.Int64("session_id", sessionID))
	}

	turns, err := s.store.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &EndResult{
		SessionID:  sessionID,
		Status:     session.Status,
		TotalTurns: len(turns),
		EndedAt:    session.EndedAt,
	}, nil
}

// Transcript returns the session and its ordered turns after an ownership
// check. Used by report synthesis and the history endpoint.
func (s *Service) Transcript(ctx context.Context, callerID int64, sessionID int64) (*models.InterviewSession, []models.Turn, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkOwnership(session, callerID); err != nil {
		return nil, nil, err
	}
	turns, err := s.store.ListTurns(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return session, turns, nil
}

// ListSessions returns all sessions owned by the user, oldest first.
func (s *Service) ListSessions(ctx context.Context, userID int64) ([]*models.InterviewSession, error) {
	return s.store.ListSessionsForUser(ctx, userID)
}

func (s *Service) loadSession(ctx context.Context, sessionID int64) (*models.InterviewSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// checkOwnership rejects callers that do not match a user-bound session.
// Anonymous sessions (nil owner) are open to any caller.
func checkOwnership(session *models.InterviewSession, callerID int64) error {
	if session.UserID == nil {
		return nil
	}
	if callerID == 0 || callerID != *session.UserID {
		return ErrNotOwner
	}
	return nil
}

func validateStart(req *StartRequest, defaultMax int) error {
	req.ResumeText = strings.TrimSpace(req.ResumeText)
	req.TargetRole = strings.TrimSpace(req.TargetRole)
	if len(req.ResumeText) < minResumeLength {
		return fmt.Errorf("resume_text must be at least %d characters", minResumeLength)
	}
	if len(req.TargetRole) < minRoleLength {
		return errors.New("target_role is required")
	}
	if req.Difficulty == "" {
		req.Difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulty(req.Difficulty) {
		return fmt.Errorf("invalid difficulty: %s", req.Difficulty)
	}
	if req.PersonalityMode == "" {
		req.PersonalityMode = models.PersonalityFriendly
	}
	if !models.ValidPersonality(req.PersonalityMode) {
		return fmt.Errorf("invalid personality_mode: %s", req.PersonalityMode)
	}
	if req.MaxQuestions == 0 {
		req.MaxQuestions = defaultMax
	}
	if req.MaxQuestions < 1 || req.MaxQuestions > submitMaxQuestions {
		return fmt.Errorf("max_questions must be between 1 and %d", submitMaxQuestions)
	}
	return nil
}
