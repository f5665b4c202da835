// Package save persists the entire entity world to a single binary
// file: a gob stream compressed with snappy. Loading tolerates corrupt
// or incompatible files by reporting an error the caller downgrades to
// "start a new game".
package save

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/golang/snappy"
	"github.com/google/uuid"

	"spireward/internal/component"
	"spireward/internal/ecs"
	"spireward/internal/gamemap"
	"spireward/internal/message"
)

// Path is the fixed save-file location, relative to the working dir.
const Path = "spireward.sav"

// Snapshot is everything a session needs to resume.
type Snapshot struct {
	RunID    string
	Seed     int64
	Floor    int
	Records  []ecs.EntityRecord
	Messages []message.Entry
}

// NewRunID mints the identifier stamped on a fresh run.
func NewRunID() string { return uuid.NewString() }

func init() {
	// Every concrete component that can appear in an EntityRecord must
	// be known to gob before the first encode/decode.
	gob.Register(component.Position{})
	gob.Register(component.Health{})
	gob.Register(component.Renderable{})
	gob.Register(component.Actor{})
	gob.Register(component.AI{})
	gob.Register(component.Inventory{})
	gob.Register(component.EffectInstance{})
	gob.Register(component.EffectSpawner{})
	gob.Register(component.Inscription{})
	gob.Register(component.Item{})
	gob.Register(component.Loot{})
	gob.Register(component.Furniture{})
	gob.Register(component.Ghost{})
	gob.Register(component.DelayedAction{})
	gob.Register(component.Stairs{})
	gob.Register(gamemap.MapComponent{})
}

// Write serializes snap to path atomically: encode, compress, write to a
// temp file, rename over the target.
func Write(path string, snap *Snapshot) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("save: encode: %w", err)
	}
	packed := snappy.Encode(nil, buf.Bytes())

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, packed, 0o644); err != nil {
		return fmt.Errorf("save: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save: rename: %w", err)
	}
	return nil
}

// Read loads and decodes a snapshot. Any failure — missing file, bad
// compression, incompatible gob — comes back as an error; the caller
// decides whether that means a fresh game.
func Read(path string) (*Snapshot, error) {
	packed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("save: read: %w", err)
	}
	raw, err := snappy.Decode(nil, packed)
	if err != nil {
		return nil, fmt.Errorf("save: decompress: %w", err)
	}
	var snap Snapshot
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("save: decode: %w", err)
	}
	return &snap, nil
}
