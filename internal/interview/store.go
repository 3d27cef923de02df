package interview

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
)

// Store persists interview sessions and their turn ledger. Turns are
// append-only; the caller supplies turn indices and is responsible for
// sequencing calls per session.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateSession inserts a new active session with question index 0.
func (s *Store) CreateSession(ctx context.Context, userID *int64, resumeText, targetRole string, difficulty models.Difficulty, personality models.PersonalityMode) (*models.InterviewSession, error) {
	now := time.Now().UTC()
	var uid sql.NullInt64
	if userID != nil {
		uid = sql.NullInt64{Int64: *userID, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO interview_sessions (user_id, target_role, difficulty, personality_mode, resume_text, status, question_index, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		uid, targetRole, difficulty, personality, resumeText, models.SessionActive, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	return &models.InterviewSession{
		ID:              id,
		UserID:          userID,
		TargetRole:      targetRole,
		Difficulty:      difficulty,
		PersonalityMode: personality,
		ResumeText:      resumeText,
		Status:          models.SessionActive,
		QuestionIndex:   0,
		StartedAt:       now,
	}, nil
}

// GetSession fetches one session by id; sql.ErrNoRows when absent.
func (s *Store) GetSession(ctx context.Context, sessionID int64) (*models.InterviewSession, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, target_role, difficulty, personality_mode, resume_text, status, question_index, started_at, ended_at
		 FROM interview_sessions WHERE id = ?`, sessionID)
	return scanSession(row)
}

// ListSessionsForUser returns the user's sessions in start order.
func (s *Store) ListSessionsForUser(ctx context.Context, userID int64) ([]*models.InterviewSession, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, target_role, difficulty, personality_mode, resume_text, status, question_index, started_at, ended_at
		 FROM interview_sessions WHERE user_id = ? ORDER BY started_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.InterviewSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// SetQuestionIndex persists the session's current question index.
func (s *Store) SetQuestionIndex(ctx context.Context, sessionID int64, index int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE interview_sessions SET question_index = ? WHERE id = ?`, index, sessionID)
	if err != nil {
		return fmt.Errorf("set question index: %w", err)
	}
	return nil
}

// EndSession marks an active session ended with the given timestamp. The
// status guard makes the transition one-shot: an already ended session is
// left untouched.
func (s *Store) EndSession(ctx context.Context, sessionID int64, endedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE interview_sessions SET status = ?, ended_at = ? WHERE id = ? AND status = ?`,
		models.SessionEnded, endedAt.UTC(), sessionID, models.SessionActive)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// AppendTurn stores one utterance at the given index.
func (s *Store) AppendTurn(ctx context.Context, sessionID int64, role models.Role, content string, turnIndex int) (*models.Turn, error) {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO interview_turns (session_id, role, content, turn_index, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, role, content, turnIndex, now,
	)
	if err != nil {
		return nil, fmt.Errorf("append turn: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("turn id: %w", err)
	}
	return &models.Turn{
		ID:        id,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		TurnIndex: turnIndex,
		CreatedAt: now,
	}, nil
}

// ListTurns returns the session's turns ordered by turn index.
func (s *Store) ListTurns(ctx context.Context, sessionID int64) ([]models.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, turn_index, created_at
		 FROM interview_turns WHERE session_id = ? ORDER BY turn_index ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []models.Turn
	for rows.Next() {
		var t models.Turn
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Role, &t.Content, &t.TurnIndex, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*models.InterviewSession, error) {
	var (
		session models.InterviewSession
		userID  sql.NullInt64
		endedAt sql.NullTime
	)
	err := row.Scan(
		&session.ID, &userID, &session.TargetRole, &session.Difficulty,
		&session.PersonalityMode, &session.ResumeText, &session.Status,
		&session.QuestionIndex, &session.StartedAt, &endedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	if userID.Valid {
		session.UserID = &userID.Int64
	}
	if endedAt.Valid {
		t := endedAt.Time
		session.EndedAt = &t
	}
	return &session, nil
}
