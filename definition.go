package fsmx

// Definition is an immutable transition table produced by Builder.Build. It
// is never mutated after construction and may be shared across goroutines and
// across any number of Instances without synchronization.
type Definition[S, E comparable, C any] struct {
	guarded       map[ruleKey[S, E]][]*transition[S, E, C]
	simple        map[ruleKey[S, E]]*transition[S, E, C]
	defaults      map[E]*transition[S, E, C]
	stateFallback map[S]Action[S, E, C]
	entry         map[S]Action[S, E, C]
	exit          map[S]Action[S, E, C]

	globalFallback Action[S, E, C]
	defaultEntry   Action[S, E, C]
	defaultExit    Action[S, E, C]
	initialFn      InitialStateFn[S, C]

	order        []*transition[S, E, C]
	defaultOrder []*transition[S, E, C]
	states       []S
	events       []E
}

// resolution is the outcome of a successful rule lookup: either a transition
// (guarded, simple, or default) or a bare fallback action.
type resolution[S, E comparable, C any] struct {
	trans  *transition[S, E, C]
	action Action[S, E, C]
}

// resolve finds the single rule applying to (state, event), evaluating guards
// in declaration order against the live context and call arguments. It
// mutates nothing. The lookup order is: guarded transitions, the unguarded
// transition, the event's default transition, the state's default action, the
// global default action. A guard error aborts resolution; no rule at all
// yields an EventRejectedError.
func (d *Definition[S, E, C]) resolve(c C, state S, event E, args []any) (resolution[S, E, C], error) {
	k := ruleKey[S, E]{state: state, event: event}
	for _, t := range d.guarded[k] {
		ok, err := t.guard(c, args...)
		if err != nil {
			return resolution[S, E, C]{}, err
		}
		if ok {
			return resolution[S, E, C]{trans: t}, nil
		}
	}
	if t, ok := d.simple[k]; ok {
		return resolution[S, E, C]{trans: t}, nil
	}
	if t, ok := d.defaults[event]; ok {
		return resolution[S, E, C]{trans: t}, nil
	}
	if a, ok := d.stateFallback[state]; ok {
		return resolution[S, E, C]{action: a}, nil
	}
	if d.globalFallback != nil {
		return resolution[S, E, C]{action: d.globalFallback}, nil
	}
	return resolution[S, E, C]{}, &EventRejectedError{State: state, Event: event}
}

// Allowed returns the events with at least one matching rule from the given
// state, in first-declaration order, without evaluating guards: guard-gated
// events are reported optimistically. With includeDefaults, events covered by
// a default transition are added, and if the state or the definition has a
// default action every event known to the definition is included.
func (d *Definition[S, E, C]) Allowed(state S, includeDefaults bool) []E {
	allowed := make(map[E]bool)
	for k := range d.guarded {
		if k.state == state {
			allowed[k.event] = true
		}
	}
	for k := range d.simple {
		if k.state == state {
			allowed[k.event] = true
		}
	}
	if includeDefaults {
		for e := range d.defaults {
			allowed[e] = true
		}
		_, hasFallback := d.stateFallback[state]
		if hasFallback || d.globalFallback != nil {
			for _, e := range d.events {
				allowed[e] = true
			}
		}
	}
	out := make([]E, 0, len(allowed))
	for _, e := range d.events {
		if allowed[e] {
			out = append(out, e)
		}
	}
	return out
}

// EventAllowed reports whether the event has at least one matching rule from
// the given state. Guards are not evaluated; an allowed answer only means
// resolution will find a candidate, not that a guard will pass.
func (d *Definition[S, E, C]) EventAllowed(event E, state S, includeDefault bool) bool {
	k := ruleKey[S, E]{state: state, event: event}
	if len(d.guarded[k]) > 0 {
		return true
	}
	if _, ok := d.simple[k]; ok {
		return true
	}
	if !includeDefault {
		return false
	}
	if _, ok := d.defaults[event]; ok {
		return true
	}
	if _, ok := d.stateFallback[state]; ok {
		return true
	}
	return d.globalFallback != nil
}

// NewInstance binds the definition to a context, deriving the starting state
// through the initial-state function. Fails with ErrNoInitialState if none
// was declared.
func (d *Definition[S, E, C]) NewInstance(c C) (*Instance[S, E, C], error) {
	if d.initialFn == nil {
		return nil, ErrNoInitialState
	}
	return &Instance[S, E, C]{def: d, context: c, current: d.initialFn(c)}, nil
}

// NewInstanceAt binds the definition to a context with an explicit starting
// state, overriding the initial-state function.
func (d *Definition[S, E, C]) NewInstanceAt(c C, initial S) *Instance[S, E, C] {
	return &Instance[S, E, C]{def: d, context: c, current: initial}
}

// TransitionInfo describes one declared state-specific transition.
type TransitionInfo[S, E comparable] struct {
	From    S
	Event   E
	Target  *S // nil --> internal transition
	Guarded bool
}

// DefaultTransitionInfo describes one declared default transition.
type DefaultTransitionInfo[S, E comparable] struct {
	Event  E
	Target *S
}

// States returns every state mentioned by the definition, in
// first-declaration order.
func (d *Definition[S, E, C]) States() []S {
	return append([]S(nil), d.states...)
}

// Events returns every event mentioned by the definition, in
// first-declaration order.
func (d *Definition[S, E, C]) Events() []E {
	return append([]E(nil), d.events...)
}

// Transitions returns the state-specific transitions in declaration order.
func (d *Definition[S, E, C]) Transitions() []TransitionInfo[S, E] {
	out := make([]TransitionInfo[S, E], 0, len(d.order))
	for _, t := range d.order {
		out = append(out, TransitionInfo[S, E]{
			From:    t.from,
			Event:   t.event,
			Target:  copyTarget(t.target),
			Guarded: t.guard != nil,
		})
	}
	return out
}

// DefaultTransitions returns the default transitions in declaration order.
func (d *Definition[S, E, C]) DefaultTransitions() []DefaultTransitionInfo[S, E] {
	out := make([]DefaultTransitionInfo[S, E], 0, len(d.defaultOrder))
	for _, t := range d.defaultOrder {
		out = append(out, DefaultTransitionInfo[S, E]{
			Event:  t.event,
			Target: copyTarget(t.target),
		})
	}
	return out
}
