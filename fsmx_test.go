package fsmx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/fsmx"
)

type tsState string
type tsEvent string

const (
	locked   tsState = "LOCKED"
	unlocked tsState = "UNLOCKED"

	coin tsEvent = "COIN"
	pass tsEvent = "PASS"
)

// turnstile is the classic instrumented context: the engine never touches the
// counters, only the caller-supplied actions do.
type turnstile struct {
	unlocks, locks, thanks, alarms int
}

func turnstileDefinition(t *testing.T) *fsmx.Definition[tsState, tsEvent, *turnstile] {
	t.Helper()

	b := fsmx.NewBuilder[tsState, tsEvent, *turnstile]()
	require.NoError(t, b.Transition(locked, coin, fsmx.To(unlocked), nil,
		func(c *turnstile, ev tsEvent, from, to tsState, args ...any) error {
			c.unlocks++
			return nil
		}))
	require.NoError(t, b.Transition(unlocked, pass, fsmx.To(locked), nil,
		func(c *turnstile, ev tsEvent, from, to tsState, args ...any) error {
			c.locks++
			return nil
		}))
	require.NoError(t, b.Transition(unlocked, coin, nil, nil,
		func(c *turnstile, ev tsEvent, from, to tsState, args ...any) error {
			c.thanks++
			return nil
		}))
	require.NoError(t, b.DefaultAction(
		func(c *turnstile, ev tsEvent, from, to tsState, args ...any) error {
			c.alarms++
			return nil
		}))
	require.NoError(t, b.Initial(func(*turnstile) tsState { return locked }))

	def, err := b.Build()
	require.NoError(t, err)
	return def
}

func TestTurnstileRoundTrip(t *testing.T) {
	def := turnstileDefinition(t)

	ts := &turnstile{}
	inst, err := def.NewInstance(ts)
	require.NoError(t, err)
	require.Equal(t, locked, inst.Current())

	require.NoError(t, inst.SendEvent(coin))
	assert.Equal(t, unlocked, inst.Current())
	assert.Equal(t, 1, ts.unlocks)

	require.NoError(t, inst.SendEvent(coin))
	assert.Equal(t, unlocked, inst.Current())
	assert.Equal(t, 1, ts.thanks)

	require.NoError(t, inst.SendEvent(pass))
	assert.Equal(t, locked, inst.Current())
	assert.Equal(t, 1, ts.locks)

	// No LOCKED+PASS rule exists; the global default action sounds the alarm.
	require.NoError(t, inst.SendEvent(pass))
	assert.Equal(t, locked, inst.Current())
	assert.Equal(t, 1, ts.alarms)

	assert.Equal(t, &turnstile{unlocks: 1, locks: 1, thanks: 1, alarms: 1}, ts)
}

func TestTurnstileAllowed(t *testing.T) {
	def := turnstileDefinition(t)

	assert.ElementsMatch(t, []tsEvent{coin, pass}, def.Allowed(locked, true))
	assert.ElementsMatch(t, []tsEvent{coin}, def.Allowed(locked, false))
	assert.ElementsMatch(t, []tsEvent{coin, pass}, def.Allowed(unlocked, false))
}

func TestDefinitionSharedAcrossInstances(t *testing.T) {
	def := turnstileDefinition(t)

	a := &turnstile{}
	bCtx := &turnstile{}
	instA, err := def.NewInstance(a)
	require.NoError(t, err)
	instB, err := def.NewInstance(bCtx)
	require.NoError(t, err)

	require.NoError(t, instA.SendEvent(coin))
	assert.Equal(t, unlocked, instA.Current())
	assert.Equal(t, locked, instB.Current())
	assert.Equal(t, 1, a.unlocks)
	assert.Equal(t, 0, bCtx.unlocks)
}
