package fsmx

import (
	"errors"
	"fmt"
)

var (
	// ErrCompleted is returned by every Builder mutator after Build.
	ErrCompleted = errors.New("builder already completed")

	// ErrDuplicateTransition is returned when a second unguarded transition
	// is registered for the same (state, event) key.
	ErrDuplicateTransition = errors.New("unguarded transition already defined")

	// ErrDuplicateDefaultTransition is returned when a second default
	// transition is registered for the same event.
	ErrDuplicateDefaultTransition = errors.New("default transition already defined")

	// ErrDuplicateAction is returned when a default, entry, or exit action is
	// registered twice for the same state, or twice globally.
	ErrDuplicateAction = errors.New("action already defined")

	// ErrNoInitialState is returned by NewInstance when the definition has no
	// initial-state function.
	ErrNoInitialState = errors.New("no initial state function defined")

	// ErrEventRejected matches, via errors.Is, every rejection returned from
	// SendEvent when no rule of any kind applies.
	ErrEventRejected = errors.New("event not allowed in this state")
)

// EventRejectedError reports the state and event of a failed resolution.
type EventRejectedError struct {
	State any
	Event any
}

func (e *EventRejectedError) Error() string {
	return fmt.Sprintf("event %v not allowed in state %v", e.Event, e.State)
}

func (e *EventRejectedError) Unwrap() error {
	return ErrEventRejected
}
