// Package yamldef builds fsmx definitions from declarative YAML documents.
// Guards and actions are referenced by name and resolved against a Registry
// supplied by the caller; states and events are strings. A Watcher can reload
// the definition file on change for callers that edit machine declarations at
// runtime.
package yamldef

import (
	"fmt"

	"github.com/comalice/fsmx"
)

// Registry maps declaration names to the guard and action functions of a
// machine over context C.
type Registry[C any] struct {
	guards  map[string]fsmx.Guard[C]
	actions map[string]fsmx.Action[string, string, C]
}

// NewRegistry creates an empty Registry.
func NewRegistry[C any]() *Registry[C] {
	return &Registry[C]{
		guards:  make(map[string]fsmx.Guard[C]),
		actions: make(map[string]fsmx.Action[string, string, C]),
	}
}

// RegisterGuard binds a guard function to a name. Re-registration fails.
func (r *Registry[C]) RegisterGuard(name string, g fsmx.Guard[C]) error {
	if _, exists := r.guards[name]; exists {
		return fmt.Errorf("guard %q already registered", name)
	}
	r.guards[name] = g
	return nil
}

// RegisterAction binds an action function to a name. Re-registration fails.
func (r *Registry[C]) RegisterAction(name string, a fsmx.Action[string, string, C]) error {
	if _, exists := r.actions[name]; exists {
		return fmt.Errorf("action %q already registered", name)
	}
	r.actions[name] = a
	return nil
}

func (r *Registry[C]) guard(name string) (fsmx.Guard[C], error) {
	if name == "" {
		return nil, nil
	}
	g, ok := r.guards[name]
	if !ok {
		return nil, fmt.Errorf("guard %q not registered", name)
	}
	return g, nil
}

func (r *Registry[C]) action(name string) (fsmx.Action[string, string, C], error) {
	if name == "" {
		return nil, nil
	}
	a, ok := r.actions[name]
	if !ok {
		return nil, fmt.Errorf("action %q not registered", name)
	}
	return a, nil
}
