package fsmx

import "sync"

// Synced wraps an Instance with a mutex so SendEvent and the state queries
// can be called from multiple goroutines. Resolution, guard evaluation, and
// the state update execute as one critical section per call; the engine core
// itself stays lock-free for single-goroutine use.
type Synced[S, E comparable, C any] struct {
	mu   sync.Mutex
	inst *Instance[S, E, C]
}

// NewSynced wraps inst. The caller must stop using inst directly.
func NewSynced[S, E comparable, C any](inst *Instance[S, E, C]) *Synced[S, E, C] {
	return &Synced[S, E, C]{inst: inst}
}

// SendEvent dispatches the event under the wrapper's lock.
func (s *Synced[S, E, C]) SendEvent(event E, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst.SendEvent(event, args...)
}

// Current returns the current state under the wrapper's lock.
func (s *Synced[S, E, C]) Current() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst.Current()
}

// Allowed returns the allowed events for the current state.
func (s *Synced[S, E, C]) Allowed(includeDefaults bool) []E {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst.Allowed(includeDefaults)
}

// EventAllowed reports whether the event is allowed from the current state.
func (s *Synced[S, E, C]) EventAllowed(event E, includeDefault bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inst.EventAllowed(event, includeDefault)
}
