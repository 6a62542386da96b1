// Package persist provides snapshot capture and restore for fsmx instances:
// file-based persisters using JSON or YAML serialization. A snapshot records
// only the instance's identity and current state; the context value is the
// caller's to persist, since the engine never owns it.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/comalice/fsmx"
)

// Snapshot is the persisted form of one instance's live state. S must
// serialize cleanly under JSON and YAML (string and integer kinds do).
type Snapshot[S comparable] struct {
	ID      string    `json:"id" yaml:"id"`
	Current S         `json:"current" yaml:"current"`
	SavedAt time.Time `json:"saved_at" yaml:"saved_at"`
}

// Capture snapshots the instance's current state. An empty id gets a
// generated UUID.
func Capture[S, E comparable, C any](inst *fsmx.Instance[S, E, C], id string) Snapshot[S] {
	if id == "" {
		id = uuid.NewString()
	}
	return Snapshot[S]{
		ID:      id,
		Current: inst.Current(),
		SavedAt: time.Now().UTC(),
	}
}

// Restore rebuilds an instance from a snapshot, binding the definition to a
// fresh context value at the snapshot's state.
func Restore[S, E comparable, C any](def *fsmx.Definition[S, E, C], c C, snap Snapshot[S]) *fsmx.Instance[S, E, C] {
	return def.NewInstanceAt(c, snap.Current)
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister[S comparable] struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister[S comparable](dir string) (*JSONPersister[S], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister[S]{dir: dir}, nil
}

func (p *JSONPersister[S]) Save(ctx context.Context, snapshot Snapshot[S]) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	fn := filepath.Join(p.dir, snapshot.ID+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

func (p *JSONPersister[S]) Load(ctx context.Context, id string) (Snapshot[S], error) {
	fn := filepath.Join(p.dir, id+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot[S]{}, fmt.Errorf("snapshot %q: %w", id, os.ErrNotExist)
		}
		return Snapshot[S]{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snapshot Snapshot[S]
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot[S]{}, fmt.Errorf("json unmarshal: %w", err)
	}
	snapshot.ID = id // Ensure ID

	return snapshot, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister[S comparable] struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister[S comparable](dir string) (*YAMLPersister[S], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister[S]{dir: dir}, nil
}

func (p *YAMLPersister[S]) Save(ctx context.Context, snapshot Snapshot[S]) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	fn := filepath.Join(p.dir, snapshot.ID+".yaml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}

	return nil
}

func (p *YAMLPersister[S]) Load(ctx context.Context, id string) (Snapshot[S], error) {
	fn := filepath.Join(p.dir, id+".yaml")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot[S]{}, fmt.Errorf("snapshot %q: %w", id, os.ErrNotExist)
		}
		return Snapshot[S]{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snapshot Snapshot[S]
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return Snapshot[S]{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	snapshot.ID = id // Ensure ID

	return snapshot, nil
}
