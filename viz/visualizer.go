// Package viz renders fsmx definitions for inspection: Graphviz DOT source
// and a JSON description of the transition table. States and events are
// labeled with their fmt representation; output order follows declaration
// order, so renderings are deterministic for a given definition.
package viz

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/comalice/fsmx"
)

// ExportDOT generates Graphviz DOT source for the definition. Internal
// transitions render as dashed self-loops; guarded transitions carry a
// "[guarded]" label suffix; default transitions originate from a "*" node.
func ExportDOT[S, E comparable, C any](def *fsmx.Definition[S, E, C]) string {
	var buf bytes.Buffer
	buf.WriteString("digraph FSM {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	for _, s := range def.States() {
		fmt.Fprintf(&buf, "  %q;\n", fmt.Sprint(s))
	}

	for _, t := range def.Transitions() {
		from := fmt.Sprint(t.From)
		label := fmt.Sprint(t.Event)
		if t.Guarded {
			label += " [guarded]"
		}
		if t.Target == nil {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dashed];\n", from, from, label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", from, fmt.Sprint(*t.Target), label)
		}
	}

	defaults := def.DefaultTransitions()
	if len(defaults) > 0 {
		buf.WriteString("  \"*\" [shape=ellipse];\n")
		for _, t := range defaults {
			label := fmt.Sprint(t.Event)
			if t.Target == nil {
				fmt.Fprintf(&buf, "  \"*\" -> \"*\" [label=%q, style=dashed];\n", label)
			} else {
				fmt.Fprintf(&buf, "  \"*\" -> %q [label=%q];\n", fmt.Sprint(*t.Target), label)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

type machineJSON struct {
	States      []string         `json:"states"`
	Events      []string         `json:"events"`
	Transitions []transitionJSON `json:"transitions"`
	Defaults    []defaultJSON    `json:"defaults,omitempty"`
}

type transitionJSON struct {
	From     string `json:"from"`
	Event    string `json:"event"`
	To       string `json:"to,omitempty"`
	Internal bool   `json:"internal,omitempty"`
	Guarded  bool   `json:"guarded,omitempty"`
}

type defaultJSON struct {
	Event    string `json:"event"`
	To       string `json:"to,omitempty"`
	Internal bool   `json:"internal,omitempty"`
}

// ExportJSON serializes the definition's transition table to indented JSON.
func ExportJSON[S, E comparable, C any](def *fsmx.Definition[S, E, C]) ([]byte, error) {
	m := machineJSON{}
	for _, s := range def.States() {
		m.States = append(m.States, fmt.Sprint(s))
	}
	for _, e := range def.Events() {
		m.Events = append(m.Events, fmt.Sprint(e))
	}
	for _, t := range def.Transitions() {
		tj := transitionJSON{
			From:    fmt.Sprint(t.From),
			Event:   fmt.Sprint(t.Event),
			Guarded: t.Guarded,
		}
		if t.Target == nil {
			tj.Internal = true
		} else {
			tj.To = fmt.Sprint(*t.Target)
		}
		m.Transitions = append(m.Transitions, tj)
	}
	for _, t := range def.DefaultTransitions() {
		dj := defaultJSON{Event: fmt.Sprint(t.Event)}
		if t.Target == nil {
			dj.Internal = true
		} else {
			dj.To = fmt.Sprint(*t.Target)
		}
		m.Defaults = append(m.Defaults, dj)
	}
	return json.MarshalIndent(m, "", "  ")
}
