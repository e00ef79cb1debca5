package render

import (
	"context"
	"sync"
	"sync/atomic"
)

// Session tracks bounded renders running against one shared synthesis
// context. OnIdle runs each time the last active render finishes, which is
// where the caller restores whatever the renders changed.
type Session struct {
	active atomic.Int64
	onIdle func()

	mu   sync.Mutex
	idle chan struct{}
}

// NewSession creates a session; onIdle may be nil
func NewSession(onIdle func()) *Session {
	idle := make(chan struct{})
	close(idle)
	return &Session{onIdle: onIdle, idle: idle}
}

// Begin registers a render and returns the func that ends it.
// Calling done more than once has no further effect.
func (s *Session) Begin() (done func()) {
	s.mu.Lock()
	if s.active.Add(1) == 1 {
		s.idle = make(chan struct{})
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(s.end)
	}
}

func (s *Session) end() {
	s.mu.Lock()
	if s.active.Add(-1) != 0 {
		s.mu.Unlock()
		return
	}
	close(s.idle)
	s.mu.Unlock()

	if s.onIdle != nil {
		s.onIdle()
	}
}

// Active returns the number of renders in flight
func (s *Session) Active() int {
	return int(s.active.Load())
}

// Wait blocks until no render is active or ctx is done
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
