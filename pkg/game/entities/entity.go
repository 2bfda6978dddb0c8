// Package entities contains the things a generated floor can hold.
// Generation only ever creates entities through a Spawner; gameplay owns them afterwards.
package entities

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dungeonforge/pkg/engine/world"
)

// Category groups entity kinds by how generation treats them
type Category int

// Entity categories
const (
	Monster Category = iota
	Item
	Container
	NPC
	Key
)

var categoryNames = map[Category]string{
	Monster:   "monster",
	Item:      "item",
	Container: "container",
	NPC:       "npc",
	Key:       "key",
}

// String returns the lower-case category name
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCategory converts a category name back to a Category
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown entity category %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so categories can be
// written by name in YAML tables.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Entity is a monster, item, container, NPC or key placed on a floor
type Entity struct {
	ID       uuid.UUID
	Kind     string // Table kind, e.g. "goblin" or "chest"
	Category Category
	Pos      world.Point // Tile position; zero for carried entities
	Color    string      // Lock colour, keys only
	Carried  bool        // True when held by another entity
	Contents []*Entity   // Inventory for monsters, loot for containers
}

// Name returns a short display name
func (e *Entity) Name() string {
	if e.Category == Key {
		return e.Color + " key"
	}
	return e.Kind
}

// Give moves item into e's contents
func (e *Entity) Give(item *Entity) {
	item.Carried = true
	item.Pos = e.Pos
	e.Contents = append(e.Contents, item)
}

// CanCarry returns true for categories that hold other entities
func (e *Entity) CanCarry() bool {
	return e.Category == Monster || e.Category == Container
}

// HasKey reports whether e, or anything it carries, is a key of the given colour
func (e *Entity) HasKey(color string) bool {
	if e.Category == Key && e.Color == color {
		return true
	}
	for _, c := range e.Contents {
		if c.HasKey(color) {
			return true
		}
	}
	return false
}

// String returns a compact description for diagnostics
func (e *Entity) String() string {
	return fmt.Sprintf("%s %s@%s", e.Category, e.Name(), e.Pos)
}
