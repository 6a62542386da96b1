package fsmx

import "errors"

// Instance binds an immutable Definition to one live context value and tracks
// the current state. An Instance is not safe for concurrent SendEvent calls;
// wrap it in a Synced or serialize access externally.
type Instance[S, E comparable, C any] struct {
	def       *Definition[S, E, C]
	context   C
	current   S
	observers []Observer[S, E]
}

// Current returns the current state.
func (i *Instance[S, E, C]) Current() S {
	return i.current
}

// Context returns the bound context value.
func (i *Instance[S, E, C]) Context() C {
	return i.context
}

// Definition returns the definition this instance runs on.
func (i *Instance[S, E, C]) Definition() *Definition[S, E, C] {
	return i.def
}

// AddObserver registers an observer notified after dispatch outcomes.
func (i *Instance[S, E, C]) AddObserver(o Observer[S, E]) {
	i.observers = append(i.observers, o)
}

// Allowed returns the events with at least one matching rule from the current
// state. See Definition.Allowed.
func (i *Instance[S, E, C]) Allowed(includeDefaults bool) []E {
	return i.def.Allowed(i.current, includeDefaults)
}

// EventAllowed reports whether the event has at least one matching rule from
// the current state. See Definition.EventAllowed.
func (i *Instance[S, E, C]) EventAllowed(event E, includeDefault bool) bool {
	return i.def.EventAllowed(event, i.current, includeDefault)
}

// SendEvent resolves the event against the current state and executes the
// selected rule.
//
// External transitions (a declared target, even when it equals the source)
// run, in order: the source state's exit action, the global exit action, the
// transition action, the state update, the target state's entry action, the
// global entry action. Internal transitions and default actions run the
// action alone; no hooks fire and the state is unchanged.
//
// An error from a guard, hook, or action aborts the remaining steps and
// propagates unmodified; a state update that already happened is not rolled
// back. When no rule matches, SendEvent fails with an EventRejectedError and
// the state is unchanged.
func (i *Instance[S, E, C]) SendEvent(event E, args ...any) error {
	res, err := i.def.resolve(i.context, i.current, event, args)
	if err != nil {
		if errors.Is(err, ErrEventRejected) {
			for _, o := range i.observers {
				o.Rejected(i.current, event)
			}
		}
		return err
	}

	if res.action != nil {
		// Per-state or global default action: always internal.
		if err := res.action(i.context, event, i.current, i.current, args...); err != nil {
			return err
		}
		for _, o := range i.observers {
			o.HandledInternally(i.current, event)
		}
		return nil
	}

	t := res.trans
	if t.target == nil {
		if t.action != nil {
			if err := t.action(i.context, event, i.current, i.current, args...); err != nil {
				return err
			}
		}
		for _, o := range i.observers {
			o.HandledInternally(i.current, event)
		}
		return nil
	}

	from, to := i.current, *t.target
	if a, ok := i.def.exit[from]; ok {
		if err := a(i.context, event, from, to, args...); err != nil {
			return err
		}
	}
	if i.def.defaultExit != nil {
		if err := i.def.defaultExit(i.context, event, from, to, args...); err != nil {
			return err
		}
	}
	if t.action != nil {
		if err := t.action(i.context, event, from, to, args...); err != nil {
			return err
		}
	}
	i.current = to
	if a, ok := i.def.entry[to]; ok {
		if err := a(i.context, event, from, to, args...); err != nil {
			return err
		}
	}
	if i.def.defaultEntry != nil {
		if err := i.def.defaultEntry(i.context, event, from, to, args...); err != nil {
			return err
		}
	}
	for _, o := range i.observers {
		o.Transitioned(from, to, event)
	}
	return nil
}
