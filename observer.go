package fsmx

// Observer receives dispatch outcomes from an Instance. Observers run
// synchronously on the SendEvent goroutine, after the dispatch sequence
// completed; they cannot veto or alter a transition.
type Observer[S, E comparable] interface {
	// Transitioned fires after an external transition completed, entry hooks
	// included.
	Transitioned(from, to S, event E)

	// HandledInternally fires after an internal transition or a default
	// action ran. The state is unchanged.
	HandledInternally(state S, event E)

	// Rejected fires when resolution found no rule for the event.
	Rejected(state S, event E)
}

// ObserverFuncs adapts plain functions to the Observer interface. Nil fields
// are skipped.
type ObserverFuncs[S, E comparable] struct {
	OnTransitioned      func(from, to S, event E)
	OnHandledInternally func(state S, event E)
	OnRejected          func(state S, event E)
}

func (o ObserverFuncs[S, E]) Transitioned(from, to S, event E) {
	if o.OnTransitioned != nil {
		o.OnTransitioned(from, to, event)
	}
}

func (o ObserverFuncs[S, E]) HandledInternally(state S, event E) {
	if o.OnHandledInternally != nil {
		o.OnHandledInternally(state, event)
	}
}

func (o ObserverFuncs[S, E]) Rejected(state S, event E) {
	if o.OnRejected != nil {
		o.OnRejected(state, event)
	}
}
