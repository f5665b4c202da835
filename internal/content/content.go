// Package content holds tileset, spawn-table, and racial-trait data:
// everything that describes the game's world instead of its mechanics.
// Every loader has a compiled-in Go-literal default and falls back to it
// when no file is present, so the game runs with zero external data
// files.
package content

import (
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"spireward/internal/component"
	"spireward/internal/mapgen"
)

// TilesetConfig maps a tile kind name to the glyph the renderer draws.
type TilesetConfig struct {
	Glyphs map[string]string `toml:"glyphs"`
}

// LoadTileset reads a TOML tileset file, or returns DefaultTileset() if
// path is empty or unreadable.
func LoadTileset(path string) TilesetConfig {
	if path == "" {
		return DefaultTileset()
	}
	var cfg TilesetConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return DefaultTileset()
	}
	if cfg.Glyphs == nil {
		return DefaultTileset()
	}
	return cfg
}

// DefaultTileset is the compiled-in classic ASCII tileset.
func DefaultTileset() TilesetConfig {
	return TilesetConfig{Glyphs: map[string]string{
		"wall":        "#",
		"floor":       ".",
		"door":        "+",
		"stairs_up":   "<",
		"stairs_down": ">",
		"grass":       "\"",
		"water":       "~",
	}}
}

// TraitSpawner is a catalog-level racial trait definition: on Event, with
// probability Chance, spawn an EffectTemplate instance affecting Target.
// The enum types live in internal/component so the combat and effect
// engines can match on them without importing the catalog.
type TraitSpawner struct {
	Key            string                `yaml:"key"`
	Event          component.TraitEvent  `yaml:"-"`
	EventName      string                `yaml:"event"`
	Target         component.TraitTarget `yaml:"-"`
	TargetName     string                `yaml:"target"`
	Chance         float64               `yaml:"chance"`
	EffectTemplate string                `yaml:"effect_template"`
}

// EffectTemplate is the catalog definition an EffectInstance is stamped
// from — internal/effect.Add reads one of these to build the component.
type EffectTemplate struct {
	Kind           component.EffectKind
	Magnitude      int
	TurnsRemaining int
}

// Catalog is every piece of swappable content the game draws from.
type Catalog struct {
	Actors          map[string]component.Actor
	Items           map[string]component.Item
	Traits          map[string]TraitSpawner
	EffectTemplates map[string]EffectTemplate
	Enemies         []mapgen.EnemyEntry
	ItemSpawns      []mapgen.ItemEntry
	EquipSpawns     []mapgen.ItemEntry
	Inscriptions    []string
}

// spawnFile is the on-disk YAML shape for LoadCatalog.
type spawnFile struct {
	Actors       map[string]component.Actor `yaml:"actors"`
	Items        map[string]component.Item  `yaml:"items"`
	Inscriptions []string                   `yaml:"inscriptions"`
}

// LoadCatalog reads a YAML overlay file and applies it to
// DefaultCatalog(): actors and items replace the defaults with the same
// key, and a non-empty inscription list replaces the default list. Spawn
// tables, traits and effect templates always come from the defaults. An
// empty path or a read or parse error yields the default untouched.
func LoadCatalog(path string) *Catalog {
	cat := DefaultCatalog()
	if path == "" {
		return cat
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cat
	}
	var sf spawnFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return cat
	}
	for k, v := range sf.Actors {
		cat.Actors[k] = v
	}
	for k, v := range sf.Items {
		cat.Items[k] = v
	}
	if len(sf.Inscriptions) > 0 {
		cat.Inscriptions = sf.Inscriptions
	}
	return cat
}
