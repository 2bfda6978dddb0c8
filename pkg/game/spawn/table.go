// Package spawn resolves floor-scaled weighted tables into entities.
//
// A table entry is eligible from its MinFloor onwards; its weight on a given
// floor is taken from the highest progression step at or below that floor,
// falling back to the base weight.
package spawn

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/game/entities"
)

// Step is one point of a floor progression
type Step struct {
	Floor  int `yaml:"floor"`
	Weight int `yaml:"weight"`
}

// ValueAt resolves a progression: the weight of the highest step whose floor is
// at or below depth, or base when no step applies.
func ValueAt(steps []Step, depth, base int) int {
	best := -1
	value := base
	for _, s := range steps {
		if s.Floor <= depth && s.Floor > best {
			best = s.Floor
			value = s.Weight
		}
	}
	return value
}

// Entry is one spawnable kind
type Entry struct {
	Kind              string            `yaml:"kind"`
	Category          entities.Category `yaml:"category"`
	MinFloor          int               `yaml:"min_floor"`
	MaxInstances      int               `yaml:"max_instances,omitempty"` // Per floor; 0 means unlimited
	BaseWeight        int               `yaml:"base_weight"`
	WeightProgression []Step            `yaml:"weight_progression,omitempty"`
	Contents          []string          `yaml:"contents,omitempty"` // Item kinds a container starts with
}

// WeightAt returns the entry's weight on the given floor
func (e Entry) WeightAt(depth int) int {
	if depth < e.MinFloor {
		return 0
	}
	return ValueAt(e.WeightProgression, depth, e.BaseWeight)
}

// Prototype converts the entry to the entity it spawns
func (e Entry) Prototype() entities.Prototype {
	p := entities.Prototype{Kind: e.Kind, Category: e.Category}
	for _, kind := range e.Contents {
		p.Contents = append(p.Contents, entities.Prototype{Kind: kind, Category: entities.Item})
	}
	return p
}

// Table is a weighted list of entries plus the per-room cap progression
type Table struct {
	Entries    []Entry `yaml:"entries"`
	MaxPerRoom []Step  `yaml:"max_per_room"`
}

// MaxPerRoomAt returns how many of this table's entities a room may receive on the given floor
func (t Table) MaxPerRoomAt(depth int) int {
	return ValueAt(t.MaxPerRoom, depth, 0)
}

// Pick draws one entry for the given floor. Entries that already reached
// MaxInstances in counts are excluded. ok is false when nothing is eligible.
func (t Table) Pick(g *rng.RNG, depth int, counts map[string]int) (Entry, bool) {
	return rng.WeightedChoice(g, t.Entries, func(e Entry) int {
		if e.MaxInstances > 0 && counts[e.Kind] >= e.MaxInstances {
			return 0
		}
		return e.WeightAt(depth)
	})
}

// Validate checks the table for malformed entries
func (t Table) Validate() error {
	seen := make(map[string]bool, len(t.Entries))
	for i, e := range t.Entries {
		if e.Kind == "" {
			return fmt.Errorf("entry %d: kind is required", i)
		}
		if seen[e.Kind] {
			return fmt.Errorf("entry %q: duplicate kind", e.Kind)
		}
		seen[e.Kind] = true
		if e.BaseWeight < 0 {
			return fmt.Errorf("entry %q: base_weight must be >= 0", e.Kind)
		}
		for _, s := range e.WeightProgression {
			if s.Weight < 0 {
				return fmt.Errorf("entry %q: weight at floor %d must be >= 0", e.Kind, s.Floor)
			}
		}
	}
	return nil
}

// Tables groups the tables used to populate a floor
type Tables struct {
	Monsters   Table `yaml:"monsters"`
	Items      Table `yaml:"items"`
	Containers Table `yaml:"containers"`
}

// Validate checks every table
func (ts Tables) Validate() error {
	for name, t := range map[string]Table{"monsters": ts.Monsters, "items": ts.Items, "containers": ts.Containers} {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// LoadTables reads tables from a YAML file. Sections missing from the file
// keep their defaults.
func LoadTables(filename string) (Tables, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read spawn tables file: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes YAML table data over the defaults
func ParseTables(data []byte) (Tables, error) {
	tables := DefaultTables()
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return Tables{}, fmt.Errorf("failed to parse spawn tables YAML: %w", err)
	}
	if err := tables.Validate(); err != nil {
		return Tables{}, fmt.Errorf("invalid spawn tables: %w", err)
	}
	return tables, nil
}

// DefaultTables returns the built-in spawn tables
func DefaultTables() Tables {
	return Tables{
		Monsters: Table{
			MaxPerRoom: []Step{{Floor: 1, Weight: 2}, {Floor: 4, Weight: 3}, {Floor: 6, Weight: 5}},
			Entries: []Entry{
				{Kind: "rat", Category: entities.Monster, MinFloor: 1, BaseWeight: 60, WeightProgression: []Step{{Floor: 4, Weight: 20}, {Floor: 8, Weight: 0}}},
				{Kind: "goblin", Category: entities.Monster, MinFloor: 1, BaseWeight: 80},
				{Kind: "orc", Category: entities.Monster, MinFloor: 3, BaseWeight: 15, WeightProgression: []Step{{Floor: 5, Weight: 30}, {Floor: 7, Weight: 60}}},
				{Kind: "troll", Category: entities.Monster, MinFloor: 5, BaseWeight: 10, WeightProgression: []Step{{Floor: 7, Weight: 30}, {Floor: 10, Weight: 50}}},
				{Kind: "wraith", Category: entities.Monster, MinFloor: 8, MaxInstances: 2, BaseWeight: 10},
			},
		},
		Items: Table{
			MaxPerRoom: []Step{{Floor: 1, Weight: 1}, {Floor: 4, Weight: 2}},
			Entries: []Entry{
				{Kind: "healing potion", Category: entities.Item, MinFloor: 1, BaseWeight: 35},
				{Kind: "scroll of lightning", Category: entities.Item, MinFloor: 2, BaseWeight: 25},
				{Kind: "scroll of confusion", Category: entities.Item, MinFloor: 3, BaseWeight: 10, WeightProgression: []Step{{Floor: 5, Weight: 20}}},
				{Kind: "scroll of fireball", Category: entities.Item, MinFloor: 5, BaseWeight: 25},
				{Kind: "sword", Category: entities.Item, MinFloor: 4, MaxInstances: 1, BaseWeight: 5},
				{Kind: "chain mail", Category: entities.Item, MinFloor: 6, MaxInstances: 1, BaseWeight: 15},
			},
		},
		Containers: Table{
			MaxPerRoom: []Step{{Floor: 1, Weight: 1}},
			Entries: []Entry{
				{Kind: "crate", Category: entities.Container, MinFloor: 1, BaseWeight: 30, Contents: []string{"healing potion"}},
				{Kind: "chest", Category: entities.Container, MinFloor: 2, BaseWeight: 10, WeightProgression: []Step{{Floor: 6, Weight: 20}}, Contents: []string{"scroll of lightning"}},
			},
		},
	}
}
