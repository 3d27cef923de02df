package interview

import "sync"

// sessionLocks serializes mutations per session so concurrent submits cannot
// compute turn indices from stale reads. Entries are retained for the process
// lifetime; sessions are never deleted in this service.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire locks the mutex for sessionID and returns its unlock func.
func (l *sessionLocks) acquire(sessionID int64) func() {
	l.mu.Lock()
	m, ok := l.locks[sessionID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[sessionID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
