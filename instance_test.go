package fsmx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/fsmtest"
)

func TestExternalTransitionOrdering(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), nil, fsmtest.Action[state, event]("action")))
	require.NoError(t, b.Exit(idle, fsmtest.Action[state, event]("exit:idle")))
	require.NoError(t, b.DefaultExit(fsmtest.Action[state, event]("exit:global")))
	require.NoError(t, b.Entry(busy, fsmtest.Action[state, event]("entry:busy")))
	require.NoError(t, b.DefaultEntry(fsmtest.Action[state, event]("entry:global")))

	def, err := b.Build()
	require.NoError(t, err)

	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.NoError(t, inst.SendEvent(start))

	assert.Equal(t, []string{"exit:idle", "exit:global", "action", "entry:busy", "entry:global"}, rec.Calls())
	assert.Equal(t, busy, inst.Current())
}

func TestSameStateExternalTransitionRunsHooks(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, ping, fsmx.To(idle), nil, fsmtest.Action[state, event]("action")))
	require.NoError(t, b.Exit(idle, fsmtest.Action[state, event]("exit:idle")))
	require.NoError(t, b.Entry(idle, fsmtest.Action[state, event]("entry:idle")))

	def, err := b.Build()
	require.NoError(t, err)

	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.NoError(t, inst.SendEvent(ping))

	assert.Equal(t, []string{"exit:idle", "action", "entry:idle"}, rec.Calls())
	assert.Equal(t, idle, inst.Current())
}

func TestInternalTransitionSkipsHooks(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, ping, nil, nil, fsmtest.Action[state, event]("action")))
	require.NoError(t, b.Exit(idle, fsmtest.Action[state, event]("exit:idle")))
	require.NoError(t, b.Entry(idle, fsmtest.Action[state, event]("entry:idle")))
	require.NoError(t, b.DefaultExit(fsmtest.Action[state, event]("exit:global")))
	require.NoError(t, b.DefaultEntry(fsmtest.Action[state, event]("entry:global")))

	def, err := b.Build()
	require.NoError(t, err)

	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.NoError(t, inst.SendEvent(ping))

	assert.Equal(t, []string{"action"}, rec.Calls())
	assert.Equal(t, idle, inst.Current())
}

func TestGuardsEvaluatedInDeclarationOrder(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), fsmtest.Guard("g1", false), fsmtest.Action[state, event]("a1")))
	require.NoError(t, b.Transition(idle, start, fsmx.To(done), fsmtest.Guard("g2", true), fsmtest.Action[state, event]("a2")))
	require.NoError(t, b.Transition(idle, start, fsmx.To(idle), fsmtest.Guard("g3", true), fsmtest.Action[state, event]("a3")))

	def, err := b.Build()
	require.NoError(t, err)

	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.NoError(t, inst.SendEvent(start))

	// g3 is never evaluated: the first true guard wins.
	assert.Equal(t, []string{"g1", "g2", "a2"}, rec.Calls())
	assert.Equal(t, done, inst.Current())
}

func TestGuardedTriedBeforeSimple(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), nil, fsmtest.Action[state, event]("simple")))
	require.NoError(t, b.Transition(idle, start, fsmx.To(done), fsmtest.Guard("g1", false), fsmtest.Action[state, event]("guarded")))

	def, err := b.Build()
	require.NoError(t, err)

	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.NoError(t, inst.SendEvent(start))

	// The guard ran and failed, then the unguarded transition was selected,
	// even though it was declared first.
	assert.Equal(t, []string{"g1", "simple"}, rec.Calls())
	assert.Equal(t, busy, inst.Current())
}

func TestResolutionFallbackChain(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), nil, nil))
	require.NoError(t, b.DefaultTransition(finish, fsmx.To(done), fsmtest.Action[state, event]("default-transition")))
	require.NoError(t, b.Default(busy, fsmtest.Action[state, event]("state-default")))
	require.NoError(t, b.DefaultAction(fsmtest.Action[state, event]("global-default")))
	require.NoError(t, b.Entry(done, fsmtest.Action[state, event]("entry:done")))

	def, err := b.Build()
	require.NoError(t, err)

	// Default transition: state-independent, external, hooks fire.
	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.NoError(t, inst.SendEvent(finish))
	assert.Equal(t, []string{"default-transition", "entry:done"}, rec.Calls())
	assert.Equal(t, done, inst.Current())

	// Per-state default action: internal, no state change, no hooks.
	rec = &fsmtest.Recorder{}
	inst = def.NewInstanceAt(rec, busy)
	require.NoError(t, inst.SendEvent(ping))
	assert.Equal(t, []string{"state-default"}, rec.Calls())
	assert.Equal(t, busy, inst.Current())

	// Global default action: last resort.
	rec = &fsmtest.Recorder{}
	inst = def.NewInstanceAt(rec, idle)
	require.NoError(t, inst.SendEvent(ping))
	assert.Equal(t, []string{"global-default"}, rec.Calls())
	assert.Equal(t, idle, inst.Current())
}

func TestFailingExitAbortsDispatch(t *testing.T) {
	boom := errors.New("boom")

	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), nil, fsmtest.Action[state, event]("action")))
	require.NoError(t, b.Exit(idle, fsmtest.FailingAction[state, event]("exit:idle", boom)))
	require.NoError(t, b.Entry(busy, fsmtest.Action[state, event]("entry:busy")))

	def, err := b.Build()
	require.NoError(t, err)

	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.ErrorIs(t, inst.SendEvent(start), boom)

	assert.Equal(t, []string{"exit:idle"}, rec.Calls())
	assert.Equal(t, idle, inst.Current())
}

func TestFailingActionLeavesStateUnchanged(t *testing.T) {
	boom := errors.New("boom")

	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), nil, fsmtest.FailingAction[state, event]("action", boom)))
	require.NoError(t, b.Entry(busy, fsmtest.Action[state, event]("entry:busy")))

	def, err := b.Build()
	require.NoError(t, err)

	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.ErrorIs(t, inst.SendEvent(start), boom)

	assert.Equal(t, []string{"action"}, rec.Calls())
	assert.Equal(t, idle, inst.Current())
}

func TestFailingEntryKeepsUpdatedState(t *testing.T) {
	boom := errors.New("boom")

	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), nil, nil))
	require.NoError(t, b.Entry(busy, fsmtest.FailingAction[state, event]("entry:busy", boom)))
	require.NoError(t, b.DefaultEntry(fsmtest.Action[state, event]("entry:global")))

	def, err := b.Build()
	require.NoError(t, err)

	rec := &fsmtest.Recorder{}
	inst := def.NewInstanceAt(rec, idle)
	require.ErrorIs(t, inst.SendEvent(start), boom)

	// The state update precedes entry hooks and is not rolled back.
	assert.Equal(t, []string{"entry:busy"}, rec.Calls())
	assert.Equal(t, busy, inst.Current())
}

func TestGuardErrorPropagates(t *testing.T) {
	boom := errors.New("boom")

	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	guard := func(r *fsmtest.Recorder, args ...any) (bool, error) { return false, boom }
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), guard, nil))
	require.NoError(t, b.Transition(idle, start, fsmx.To(done), nil, nil))

	def, err := b.Build()
	require.NoError(t, err)

	inst := def.NewInstanceAt(&fsmtest.Recorder{}, idle)
	require.ErrorIs(t, inst.SendEvent(start), boom)
	assert.Equal(t, idle, inst.Current())
}

func TestSendEventArgumentsReachCallbacks(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()

	var guardArgs, actionArgs []any
	guard := func(r *fsmtest.Recorder, args ...any) (bool, error) {
		guardArgs = args
		return true, nil
	}
	action := func(r *fsmtest.Recorder, ev event, from, to state, args ...any) error {
		actionArgs = args
		return nil
	}
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), guard, action))

	def, err := b.Build()
	require.NoError(t, err)

	inst := def.NewInstanceAt(&fsmtest.Recorder{}, idle)
	require.NoError(t, inst.SendEvent(start, 42, "credit"))

	assert.Equal(t, []any{42, "credit"}, guardArgs)
	assert.Equal(t, []any{42, "credit"}, actionArgs)
}

func TestNewInstanceRequiresInitial(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), nil, nil))

	def, err := b.Build()
	require.NoError(t, err)

	_, err = def.NewInstance(&fsmtest.Recorder{})
	require.ErrorIs(t, err, fsmx.ErrNoInitialState)

	inst := def.NewInstanceAt(&fsmtest.Recorder{}, busy)
	assert.Equal(t, busy, inst.Current())
}

func TestObserverNotifications(t *testing.T) {
	b := fsmx.NewBuilder[state, event, *fsmtest.Recorder]()
	require.NoError(t, b.Transition(idle, start, fsmx.To(busy), nil, nil))
	require.NoError(t, b.Transition(busy, ping, nil, nil, nil))

	def, err := b.Build()
	require.NoError(t, err)

	var transitioned, internal, rejected int
	inst := def.NewInstanceAt(&fsmtest.Recorder{}, idle)
	inst.AddObserver(fsmx.ObserverFuncs[state, event]{
		OnTransitioned:      func(from, to state, ev event) { transitioned++ },
		OnHandledInternally: func(s state, ev event) { internal++ },
		OnRejected:          func(s state, ev event) { rejected++ },
	})

	require.NoError(t, inst.SendEvent(start))
	require.NoError(t, inst.SendEvent(ping))
	require.Error(t, inst.SendEvent(finish))

	assert.Equal(t, 1, transitioned)
	assert.Equal(t, 1, internal)
	assert.Equal(t, 1, rejected)
}
