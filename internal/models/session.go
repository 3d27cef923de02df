package models

import "time"

// Difficulty controls how demanding the interviewer is.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// PersonalityMode selects the interviewer's tone.
type PersonalityMode string

const (
	PersonalityStrict   PersonalityMode = "strict"
	PersonalityFriendly PersonalityMode = "friendly"
	PersonalityStress   PersonalityMode = "stress"
)

const (
	SessionActive = "active"
	SessionEnded  = "ended"
)

// InterviewSession is one end-to-end simulated interview. UserID is nil for
// anonymous sessions. QuestionIndex never decreases; Status moves
// active -> ended exactly once.
type InterviewSession struct {
	ID              int64           `json:"id"`
	UserID          *int64          `json:"user_id,omitempty"`
	TargetRole      string          `json:"target_role"`
	Difficulty      Difficulty      `json:"difficulty"`
	PersonalityMode PersonalityMode `json:"personality_mode"`
	ResumeText      string          `json:"-"`
	Status          string          `json:"status"`
	QuestionIndex   int             `json:"question_index"`
	StartedAt       time.Time       `json:"started_at"`
	EndedAt         *time.Time      `json:"ended_at,omitempty"`
}

// Active reports whether the session still accepts answers.
func (s *InterviewSession) Active() bool {
	return s.Status == SessionActive
}

// ValidDifficulty reports whether d is one of the supported levels.
func ValidDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ValidPersonality reports whether p is one of the supported modes.
func ValidPersonality(p PersonalityMode) bool {
	switch p {
	case PersonalityStrict, PersonalityFriendly, PersonalityStress:
		return true
	}
	return false
}
