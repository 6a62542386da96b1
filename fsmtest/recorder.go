// Package fsmtest provides test instrumentation for fsmx machines: a
// Recorder context that captures the ordered sequence of guard, action, and
// hook invocations, plus helpers producing recording callbacks. Machines
// under test use *Recorder as their context type, so the recorded order is
// exactly the order the engine invoked caller code in.
package fsmtest

import (
	"sync"

	"github.com/comalice/fsmx"
)

// Recorder captures invocation names in call order.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Record appends one invocation name.
func (r *Recorder) Record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

// Calls returns a copy of the recorded sequence.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Count returns how many times name was recorded.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

// Reset clears the recorded sequence.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Action returns an action that records name and succeeds.
func Action[S, E comparable](name string) fsmx.Action[S, E, *Recorder] {
	return func(r *Recorder, event E, from, to S, args ...any) error {
		r.Record(name)
		return nil
	}
}

// FailingAction returns an action that records name and fails with err.
func FailingAction[S, E comparable](name string, err error) fsmx.Action[S, E, *Recorder] {
	return func(r *Recorder, event E, from, to S, args ...any) error {
		r.Record(name)
		return err
	}
}

// Guard returns a guard that records name and answers result.
func Guard(name string, result bool) fsmx.Guard[*Recorder] {
	return func(r *Recorder, args ...any) (bool, error) {
		r.Record(name)
		return result, nil
	}
}
