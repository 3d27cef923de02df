package interview

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/config"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/models"
	"github.com/kumarswamy603digital/AI-powered-interview-guide/internal/storage"
)

const testResume = "Backend engineer with six years building Go and Python services, " +
	"including payment APIs, a sharded Postgres cluster and a Kafka ingestion pipeline."

func newTestService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	cfg := &config.Config{
		Databases: map[string]config.DatabaseConfig{
			"sqlite3": {DSN: ":memory:"},
		},
	}
	db, err := storage.Open("sqlite3", cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := storage.Migrate(db, "sqlite3"); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// No AI backend configured; the bank drives every question.
	gen := NewGenerator(NewAIStrategy(nil, 0, nil), BankStrategy{})
	return NewService(NewStore(db), gen, 8, nil), db
}

func createUser(t *testing.T, db *sql.DB, username string) int64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?)`,
		username, "hash", "2026-01-01 00:00:00")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	return id
}

func startSession(t *testing.T, svc *Service, difficulty models.Difficulty) *StartResult {
	t.Helper()
	result, err := svc.Start(context.Background(), nil, StartRequest{
		ResumeText:      testResume,
		TargetRole:      "Backend Engineer",
		Difficulty:      difficulty,
		PersonalityMode: models.PersonalityFriendly,
	})
	if err != nil {
		t.Fatalf("start session: %v", err)
	}
	return result
}

func TestStartRecordsFirstQuestion(t *testing.T) {
	svc, _ := newTestService(t)
	result := startSession(t, svc, models.DifficultyEasy)

	if result.QuestionIndex != 0 {
		t.Fatalf("expected question index 0, got %d", result.QuestionIndex)
	}
	if !strings.Contains(result.FirstQuestion, "summary of your background") {
		t.Fatalf("expected easy interview to open with the intro question, got %q", result.FirstQuestion)
	}
	if result.Session.Status != models.SessionActive {
		t.Fatalf("expected active session, got %q", result.Session.Status)
	}

	_, turns, err := svc.Transcript(context.Background(), 0, result.Session.ID)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(turns) != 1 || turns[0].Role != models.RoleAssistant || turns[0].TurnIndex != 0 {
		t.Fatalf("expected single assistant turn at index 0, got %+v", turns)
	}
}

func TestStartValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  StartRequest
	}{
		{"short resume", StartRequest{ResumeText: "too short", TargetRole: "Backend Engineer"}},
		{"missing role", StartRequest{ResumeText: testResume, TargetRole: ""}},
		{"bad difficulty", StartRequest{ResumeText: testResume, TargetRole: "Backend Engineer", Difficulty: "impossible"}},
		{"bad personality", StartRequest{ResumeText: testResume, TargetRole: "Backend Engineer", PersonalityMode: "angry"}},
		{"max questions too high", StartRequest{ResumeText: testResume, TargetRole: "Backend Engineer", MaxQuestions: 26}},
		{"max questions negative", StartRequest{ResumeText: testResume, TargetRole: "Backend Engineer", MaxQuestions: -1}},
	}
	for _, tc := range cases {
		if _, err := svc.Start(ctx, nil, tc.req); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestFollowUpDoesNotAdvanceIndex(t *testing.T) {
	svc, _ := newTestService(t)
	result := startSession(t, svc, models.DifficultyEasy)
	ctx := context.Background()

	// A throwaway answer draws a follow-up and leaves the index parked.
	sub, err := svc.Submit(ctx, 0, result.Session.ID, "idk")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !sub.IsFollowUp {
		t.Fatalf("expected follow-up for a 3 character answer")
	}
	if sub.QuestionIndex != 0 {
		t.Fatalf("follow-up must not advance the index, got %d", sub.QuestionIndex)
	}

	// A substantive answer advances to question 1.
	long := strings.Repeat("I built the payments API, introduced idempotency keys and reduced duplicate charges to zero. ", 3)
	sub2, err := svc.Submit(ctx, 0, result.Session.ID, long)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub2.IsFollowUp {
		t.Fatalf("substantive answer should not draw a follow-up")
	}
	if sub2.QuestionIndex != 1 {
		t.Fatalf("expected index 1 after substantive answer, got %d", sub2.QuestionIndex)
	}
}

func TestTurnIndicesAreGapFree(t *testing.T) {
	svc, _ := newTestService(t)
	result := startSession(t, svc, models.DifficultyMedium)
	ctx := context.Background()

	answers := []string{
		"idk",
		strings.Repeat("We sharded the orders table by customer id and moved hot reads behind a cache. ", 2),
		"not sure really",
		strings.Repeat("I led the incident response, wrote the postmortem and automated the failover runbook. ", 2),
	}
	for _, a := range answers {
		if _, err := svc.Submit(ctx, 0, result.Session.ID, a); err != nil {
			t.Fatalf("submit %q: %v", a, err)
		}
	}

	_, turns, err := svc.Transcript(ctx, 0, result.Session.ID)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	// 1 opening question + 4 answers + 4 generated questions.
	if len(turns) != 9 {
		t.Fatalf("expected 9 turns, got %d", len(turns))
	}
	for i, turn := range turns {
		if turn.TurnIndex != i {
			t.Fatalf("turn %d has index %d", i, turn.TurnIndex)
		}
		wantRole := models.RoleAssistant
		if i%2 == 1 {
			wantRole = models.RoleUser
		}
		if turn.Role != wantRole {
			t.Fatalf("turn %d: expected role %s, got %s", i, wantRole, turn.Role)
		}
	}
}

func TestEndIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	result := startSession(t, svc, models.DifficultyMedium)
	ctx := context.Background()

	first, err := svc.End(ctx, 0, result.Session.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if first.Status != models.SessionEnded || first.EndedAt == nil {
		t.Fatalf("expected ended session with timestamp, got %+v", first)
	}

	second, err := svc.End(ctx, 0, result.Session.ID)
	if err != nil {
		t.Fatalf("second end: %v", err)
	}
	if !second.EndedAt.Equal(*first.EndedAt) {
		t.Fatalf("repeated end changed the timestamp: %v vs %v", second.EndedAt, first.EndedAt)
	}
	if second.TotalTurns != first.TotalTurns {
		t.Fatalf("repeated end changed the turn count: %d vs %d", second.TotalTurns, first.TotalTurns)
	}
}

func TestSubmitAfterEndRejected(t *testing.T) {
	svc, _ := newTestService(t)
	result := startSession(t, svc, models.DifficultyMedium)
	ctx := context.Background()

	if _, err := svc.End(ctx, 0, result.Session.ID); err != nil {
		t.Fatalf("end: %v", err)
	}

	_, before, err := svc.Transcript(ctx, 0, result.Session.ID)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}

	_, err = svc.Submit(ctx, 0, result.Session.ID, "one more answer please")
	if !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}

	_, after, err := svc.Transcript(ctx, 0, result.Session.ID)
	if err != nil {
		t.Fatalf("transcript: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("rejected submit appended turns: %d vs %d", len(after), len(before))
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Submit(context.Background(), 0, 9999, "an answer for a session that does not exist")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestOwnershipEnforced(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, db, "owner")
	intruder := createUser(t, db, "intruder")
	result, err := svc.Start(ctx, &owner, StartRequest{
		ResumeText:      testResume,
		TargetRole:      "Backend Engineer",
		Difficulty:      models.DifficultyMedium,
		PersonalityMode: models.PersonalityFriendly,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Anonymous and mismatched callers are both rejected.
	if _, err := svc.Submit(ctx, 0, result.Session.ID, "a perfectly reasonable answer"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for anonymous caller, got %v", err)
	}
	if _, err := svc.Submit(ctx, intruder, result.Session.ID, "a perfectly reasonable answer"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for mismatched caller, got %v", err)
	}

	long := strings.Repeat("I migrated the billing system to event sourcing and documented every failure mode. ", 2)
	if _, err := svc.Submit(ctx, owner, result.Session.ID, long); err != nil {
		t.Fatalf("owner submit: %v", err)
	}
}

func TestListSessionsOrdered(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	owner := createUser(t, db, "lister")
	var ids []int64
	for i := 0; i < 3; i++ {
		result, err := svc.Start(ctx, &owner, StartRequest{
			ResumeText:      testResume,
			TargetRole:      "Backend Engineer",
			Difficulty:      models.DifficultyMedium,
			PersonalityMode: models.PersonalityFriendly,
		})
		if err != nil {
			t.Fatalf("start %d: %v", i, err)
		}
		ids = append(ids, result.Session.ID)
	}

	sessions, err := svc.ListSessions(ctx, owner)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	for i, sess := range sessions {
		if sess.ID != ids[i] {
			t.Fatalf("expected oldest-first ordering, got %v", sessions)
		}
	}
}
