// Package fsmx is a generic finite-state-machine engine.
//
// A machine is declared once through a Builder, frozen into an immutable
// Definition, and driven through any number of Instances, each bound to a
// caller-owned context value:
//
//	b := fsmx.NewBuilder[State, Event, *Turnstile]()
//	b.Transition(Locked, Coin, fsmx.To(Unlocked), nil, unlock)
//	b.Transition(Unlocked, Pass, fsmx.To(Locked), nil, lock)
//	def, err := b.Build()
//	inst := def.NewInstanceAt(turnstile, Locked)
//	err = inst.SendEvent(Coin)
//
// States and events are arbitrary comparable types supplied by the caller;
// the engine never inspects the context beyond handing it to the caller's
// guard and action functions.
package fsmx

// Action is the single callback shape used for transition actions, entry and
// exit hooks, and default actions. For external transitions from and to carry
// the source and target states; for internal transitions and default-action
// dispatch both equal the current state. The trailing args are the values
// passed to SendEvent, forwarded unvalidated.
type Action[S, E comparable, C any] func(c C, event E, from, to S, args ...any) error

// Guard selects among competing guarded transitions for the same
// (state, event) key. Guards are evaluated in declaration order and must be
// deterministic; a guard error aborts resolution and surfaces from SendEvent.
type Guard[C any] func(c C, args ...any) (bool, error)

// InitialStateFn derives an Instance's starting state from its context,
// so callers don't have to track the initial state separately.
type InitialStateFn[S comparable, C any] func(c C) S

// To returns a pointer to s for use as a transition target. A nil target
// means an internal transition.
func To[S comparable](s S) *S {
	return &s
}

// ruleKey identifies the rule set for one (state, event) pair.
type ruleKey[S, E comparable] struct {
	state S
	event E
}

// transition is one resolved rule: guarded or simple, internal or external,
// state-specific or event-default.
type transition[S, E comparable, C any] struct {
	from   S
	event  E
	target *S // nil --> internal transition
	guard  Guard[C]
	action Action[S, E, C]
}

func copyTarget[S comparable](target *S) *S {
	if target == nil {
		return nil
	}
	v := *target
	return &v
}
