package service

import "sync"

// Engine serializes every call into a SessionService. The session itself is
// single-threaded; HTTP handlers and background workers go through Do.
type Engine struct {
	mu sync.Mutex
	s  *SessionService
}

func NewEngine(s *SessionService) *Engine {
	return &Engine{s: s}
}

// Do runs fn with exclusive access to the session. Observers run inside fn's
// publishes and must not call Do themselves.
func (e *Engine) Do(fn func(s *SessionService)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.s)
}

// PollExpirations is Do(PollExpirations), for the expiry worker.
func (e *Engine) PollExpirations() {
	e.Do(func(s *SessionService) { s.PollExpirations() })
}
