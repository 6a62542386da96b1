package yamldef

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx"
)

// Config is the YAML shape of one machine declaration.
type Config struct {
	ID          string             `yaml:"id"`
	Initial     string             `yaml:"initial"`
	Transitions []TransitionConfig `yaml:"transitions"`
	Defaults    []DefaultConfig    `yaml:"defaults"`

	StateDefaults map[string]string `yaml:"stateDefaults"` // state -> action name
	DefaultAction string            `yaml:"defaultAction"`

	Entry        map[string]string `yaml:"entry"` // state -> action name
	Exit         map[string]string `yaml:"exit"`
	DefaultEntry string            `yaml:"defaultEntry"`
	DefaultExit  string            `yaml:"defaultExit"`
}

// TransitionConfig declares one transition. An empty "to" declares an
// internal transition.
type TransitionConfig struct {
	From   string `yaml:"from"`
	Event  string `yaml:"event"`
	To     string `yaml:"to"`
	Guard  string `yaml:"guard"`
	Action string `yaml:"action"`
}

// DefaultConfig declares one default transition for an event.
type DefaultConfig struct {
	Event  string `yaml:"event"`
	To     string `yaml:"to"`
	Action string `yaml:"action"`
}

// Validate checks the declaration's well-formedness: non-empty ID, and every
// transition naming its source state and event. Duplicate rules are caught
// later by the builder.
func (c *Config) Validate() error {
	if c.ID == "" {
		return errors.New("machine ID is required")
	}
	for i, t := range c.Transitions {
		if t.From == "" {
			return fmt.Errorf("transition %d: source state is required", i)
		}
		if t.Event == "" {
			return fmt.Errorf("transition %d: event is required", i)
		}
	}
	for i, d := range c.Defaults {
		if d.Event == "" {
			return fmt.Errorf("default transition %d: event is required", i)
		}
	}
	return nil
}

// Parse unmarshals and validates a YAML machine declaration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("machine %q: %w", cfg.ID, err)
	}
	return &cfg, nil
}

// Build resolves the declaration's guard and action names against reg and
// assembles the definition through a Builder, so the builder's duplicate
// checks apply to declarative machines exactly as to programmatic ones.
func Build[C any](cfg *Config, reg *Registry[C]) (*fsmx.Definition[string, string, C], error) {
	b := fsmx.NewBuilder[string, string, C]()

	for i, t := range cfg.Transitions {
		guard, err := reg.guard(t.Guard)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		action, err := reg.action(t.Action)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		var target *string
		if t.To != "" {
			target = fsmx.To(t.To)
		}
		if err := b.Transition(t.From, t.Event, target, guard, action); err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
	}

	for i, d := range cfg.Defaults {
		action, err := reg.action(d.Action)
		if err != nil {
			return nil, fmt.Errorf("default transition %d: %w", i, err)
		}
		var target *string
		if d.To != "" {
			target = fsmx.To(d.To)
		}
		if err := b.DefaultTransition(d.Event, target, action); err != nil {
			return nil, fmt.Errorf("default transition %d: %w", i, err)
		}
	}

	for state, name := range cfg.StateDefaults {
		action, err := reg.action(name)
		if err != nil {
			return nil, fmt.Errorf("state default for %q: %w", state, err)
		}
		if err := b.Default(state, action); err != nil {
			return nil, err
		}
	}
	if cfg.DefaultAction != "" {
		action, err := reg.action(cfg.DefaultAction)
		if err != nil {
			return nil, err
		}
		if err := b.DefaultAction(action); err != nil {
			return nil, err
		}
	}

	for state, name := range cfg.Entry {
		action, err := reg.action(name)
		if err != nil {
			return nil, fmt.Errorf("entry for %q: %w", state, err)
		}
		if err := b.Entry(state, action); err != nil {
			return nil, err
		}
	}
	for state, name := range cfg.Exit {
		action, err := reg.action(name)
		if err != nil {
			return nil, fmt.Errorf("exit for %q: %w", state, err)
		}
		if err := b.Exit(state, action); err != nil {
			return nil, err
		}
	}
	if cfg.DefaultEntry != "" {
		action, err := reg.action(cfg.DefaultEntry)
		if err != nil {
			return nil, err
		}
		if err := b.DefaultEntry(action); err != nil {
			return nil, err
		}
	}
	if cfg.DefaultExit != "" {
		action, err := reg.action(cfg.DefaultExit)
		if err != nil {
			return nil, err
		}
		if err := b.DefaultExit(action); err != nil {
			return nil, err
		}
	}

	if cfg.Initial != "" {
		initial := cfg.Initial
		if err := b.Initial(func(C) string { return initial }); err != nil {
			return nil, err
		}
	}

	return b.Build()
}

// Load parses a YAML declaration and builds its definition.
func Load[C any](data []byte, reg *Registry[C]) (*fsmx.Definition[string, string, C], error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Build(cfg, reg)
}

// LoadFile reads a YAML declaration from disk and builds its definition.
func LoadFile[C any](path string, reg *Registry[C]) (*fsmx.Definition[string, string, C], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Load(data, reg)
}
