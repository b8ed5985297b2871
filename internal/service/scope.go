package service

import (
	"context"
	"sync"
)

// Scope is the lifetime of one view. Results applied after the scope is
// disposed are discarded.
type Scope struct {
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	disposed bool
}

// NewScope derives a scope from parent. Cancelling parent disposes the scope.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{ctx: ctx, cancel: cancel}
	context.AfterFunc(ctx, s.markDisposed)
	return s
}

func (s *Scope) markDisposed() {
	s.mu.Lock()
	s.disposed = true
	s.mu.Unlock()
}

// Context is cancelled when the scope is disposed.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Dispose cancels in-flight work and stops further mutations.
func (s *Scope) Dispose() {
	s.markDisposed()
	s.cancel()
}

func (s *Scope) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed || s.ctx.Err() != nil
}

// Apply runs fn unless the scope is disposed, and reports whether it ran.
func (s *Scope) Apply(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed || s.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}
