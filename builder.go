package fsmx

import "fmt"

// Builder accumulates transition rules, guards, and fallback actions, and
// freezes them into an immutable Definition. Every mutator validates its
// declaration immediately and returns an error on a duplicate registration or
// on any call after Build.
type Builder[S, E comparable, C any] struct {
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
	seenStates   map[S]bool
	seenEvents   map[E]bool

	completed bool
}

// NewBuilder creates an empty Builder for states S, events E, and context C.
func NewBuilder[S, E comparable, C any]() *Builder[S, E, C] {
	return &Builder[S, E, C]{
		guarded:       make(map[ruleKey[S, E]][]*transition[S, E, C]),
		simple:        make(map[ruleKey[S, E]]*transition[S, E, C]),
		defaults:      make(map[E]*transition[S, E, C]),
		stateFallback: make(map[S]Action[S, E, C]),
		entry:         make(map[S]Action[S, E, C]),
		exit:          make(map[S]Action[S, E, C]),
		seenStates:    make(map[S]bool),
		seenEvents:    make(map[E]bool),
	}
}

// Transition registers a transition from a state on an event. A nil target
// declares an internal transition; use To for external targets, including
// same-state external transitions. A nil guard declares the single unguarded
// transition for the key; registering a second one fails. Guarded transitions
// accumulate in declaration order, which is the order their guards are
// evaluated in during resolution.
func (b *Builder[S, E, C]) Transition(from S, event E, target *S, guard Guard[C], action Action[S, E, C]) error {
	if b.completed {
		return fmt.Errorf("transition from %v on %v: %w", from, event, ErrCompleted)
	}
	t := &transition[S, E, C]{
		from:   from,
		event:  event,
		target: copyTarget(target),
		guard:  guard,
		action: action,
	}
	k := ruleKey[S, E]{state: from, event: event}
	if guard == nil {
		if _, exists := b.simple[k]; exists {
			return fmt.Errorf("state %v event %v: %w", from, event, ErrDuplicateTransition)
		}
		b.simple[k] = t
	} else {
		b.guarded[k] = append(b.guarded[k], t)
	}
	b.order = append(b.order, t)
	b.noteState(from)
	if target != nil {
		b.noteState(*target)
	}
	b.noteEvent(event)
	return nil
}

// DefaultTransition registers a state-independent fallback transition for an
// event, tried only after all state-specific rules for the current state have
// failed to match. At most one per event.
func (b *Builder[S, E, C]) DefaultTransition(event E, target *S, action Action[S, E, C]) error {
	if b.completed {
		return fmt.Errorf("default transition on %v: %w", event, ErrCompleted)
	}
	if _, exists := b.defaults[event]; exists {
		return fmt.Errorf("event %v: %w", event, ErrDuplicateDefaultTransition)
	}
	t := &transition[S, E, C]{
		event:  event,
		target: copyTarget(target),
		action: action,
	}
	b.defaults[event] = t
	b.defaultOrder = append(b.defaultOrder, t)
	if target != nil {
		b.noteState(*target)
	}
	b.noteEvent(event)
	return nil
}

// Default registers the per-state fallback action, invoked when an event has
// no matching transition from the state. It never changes state and bypasses
// entry/exit hooks.
func (b *Builder[S, E, C]) Default(state S, action Action[S, E, C]) error {
	if b.completed {
		return fmt.Errorf("default action for %v: %w", state, ErrCompleted)
	}
	if _, exists := b.stateFallback[state]; exists {
		return fmt.Errorf("default action for state %v: %w", state, ErrDuplicateAction)
	}
	b.stateFallback[state] = action
	b.noteState(state)
	return nil
}

// DefaultAction registers the global last-resort action, invoked when no rule
// of any other kind matches.
func (b *Builder[S, E, C]) DefaultAction(action Action[S, E, C]) error {
	if b.completed {
		return fmt.Errorf("global default action: %w", ErrCompleted)
	}
	if b.globalFallback != nil {
		return fmt.Errorf("global default action: %w", ErrDuplicateAction)
	}
	b.globalFallback = action
	return nil
}

// Entry registers the entry action for a state, run after the state becomes
// current on an external transition.
func (b *Builder[S, E, C]) Entry(state S, action Action[S, E, C]) error {
	if b.completed {
		return fmt.Errorf("entry action for %v: %w", state, ErrCompleted)
	}
	if _, exists := b.entry[state]; exists {
		return fmt.Errorf("entry action for state %v: %w", state, ErrDuplicateAction)
	}
	b.entry[state] = action
	b.noteState(state)
	return nil
}

// Exit registers the exit action for a state, run before the transition
// action on an external transition out of the state.
func (b *Builder[S, E, C]) Exit(state S, action Action[S, E, C]) error {
	if b.completed {
		return fmt.Errorf("exit action for %v: %w", state, ErrCompleted)
	}
	if _, exists := b.exit[state]; exists {
		return fmt.Errorf("exit action for state %v: %w", state, ErrDuplicateAction)
	}
	b.exit[state] = action
	b.noteState(state)
	return nil
}

// DefaultEntry registers the global entry action, run after the
// state-specific entry action on every external transition.
func (b *Builder[S, E, C]) DefaultEntry(action Action[S, E, C]) error {
	if b.completed {
		return fmt.Errorf("global entry action: %w", ErrCompleted)
	}
	if b.defaultEntry != nil {
		return fmt.Errorf("global entry action: %w", ErrDuplicateAction)
	}
	b.defaultEntry = action
	return nil
}

// DefaultExit registers the global exit action, run after the state-specific
// exit action on every external transition.
func (b *Builder[S, E, C]) DefaultExit(action Action[S, E, C]) error {
	if b.completed {
		return fmt.Errorf("global exit action: %w", ErrCompleted)
	}
	if b.defaultExit != nil {
		return fmt.Errorf("global exit action: %w", ErrDuplicateAction)
	}
	b.defaultExit = action
	return nil
}

// Initial sets the function deriving an Instance's starting state from its
// context. The last assignment before Build wins.
func (b *Builder[S, E, C]) Initial(fn InitialStateFn[S, C]) error {
	if b.completed {
		return fmt.Errorf("initial state function: %w", ErrCompleted)
	}
	b.initialFn = fn
	return nil
}

// Build freezes the builder into an immutable Definition. The builder becomes
// inert: every subsequent call, including a second Build, fails with
// ErrCompleted. The returned Definition is unaffected by anything done to the
// builder afterwards.
func (b *Builder[S, E, C]) Build() (*Definition[S, E, C], error) {
	if b.completed {
		return nil, ErrCompleted
	}
	b.completed = true

	d := &Definition[S, E, C]{
		guarded:        make(map[ruleKey[S, E]][]*transition[S, E, C], len(b.guarded)),
		simple:         make(map[ruleKey[S, E]]*transition[S, E, C], len(b.simple)),
		defaults:       make(map[E]*transition[S, E, C], len(b.defaults)),
		stateFallback:  make(map[S]Action[S, E, C], len(b.stateFallback)),
		entry:          make(map[S]Action[S, E, C], len(b.entry)),
		exit:           make(map[S]Action[S, E, C], len(b.exit)),
		globalFallback: b.globalFallback,
		defaultEntry:   b.defaultEntry,
		defaultExit:    b.defaultExit,
		initialFn:      b.initialFn,
		order:          append([]*transition[S, E, C](nil), b.order...),
		defaultOrder:   append([]*transition[S, E, C](nil), b.defaultOrder...),
		states:         append([]S(nil), b.states...),
		events:         append([]E(nil), b.events...),
	}
	for k, list := range b.guarded {
		d.guarded[k] = append([]*transition[S, E, C](nil), list...)
	}
	for k, t := range b.simple {
		d.simple[k] = t
	}
	for e, t := range b.defaults {
		d.defaults[e] = t
	}
	for s, a := range b.stateFallback {
		d.stateFallback[s] = a
	}
	for s, a := range b.entry {
		d.entry[s] = a
	}
	for s, a := range b.exit {
		d.exit[s] = a
	}
	return d, nil
}

func (b *Builder[S, E, C]) noteState(s S) {
	if !b.seenStates[s] {
		b.seenStates[s] = true
		b.states = append(b.states, s)
	}
}

func (b *Builder[S, E, C]) noteEvent(e E) {
	if !b.seenEvents[e] {
		b.seenEvents[e] = true
		b.events = append(b.events, e)
	}
}
