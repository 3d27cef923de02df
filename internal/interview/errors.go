package interview

import "errors"

var (
	// ErrSessionNotFound marks operations against an unknown session id.
	ErrSessionNotFound = errors.New("interview session not found")
	// ErrSessionEnded marks a submit against a session that already ended.
	ErrSessionEnded = errors.New("interview session has ended")
	// ErrNotOwner marks a caller identity mismatch on a user-bound session.
	ErrNotOwner = errors.New("not allowed")
)
