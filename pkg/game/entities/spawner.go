package entities

import (
	"io"

	"github.com/google/uuid"

	"dungeonforge/pkg/engine/world"
)

// Host is the floor an entity is spawned onto
type Host interface {
	Label() string
	AddEntity(e *Entity)
}

// Prototype describes an entity to create
type Prototype struct {
	Kind     string
	Category Category
	Color    string
	Contents []Prototype
}

// KeyPrototype returns the prototype of a key of the given colour
func KeyPrototype(color string) Prototype {
	return Prototype{Kind: "key", Category: Key, Color: color}
}

// Spawner creates entities on a floor.
//
// Postcondition: the returned entity is positioned at `at` and has been added to host.
type Spawner interface {
	Spawn(host Host, proto Prototype, at world.Point) *Entity
}

// Builder creates loose entities (carried items) without placing them.
type Builder interface {
	Build(proto Prototype) *Entity
}

// DefaultSpawner is the stock Spawner. IDs are drawn from ids so that a seeded
// reader yields reproducible identifiers.
type DefaultSpawner struct {
	ids io.Reader
}

// NewSpawner creates a spawner drawing identifiers from ids. A nil reader
// falls back to crypto randomness.
func NewSpawner(ids io.Reader) *DefaultSpawner {
	return &DefaultSpawner{ids: ids}
}

// Spawn builds proto, places it at `at` and adds it to host
func (s *DefaultSpawner) Spawn(host Host, proto Prototype, at world.Point) *Entity {
	e := s.Build(proto)
	e.Pos = at
	for _, c := range e.Contents {
		c.Pos = at
	}
	host.AddEntity(e)
	return e
}

// Build creates an entity and its contents without placing it
func (s *DefaultSpawner) Build(proto Prototype) *Entity {
	e := &Entity{
		ID:       s.newID(),
		Kind:     proto.Kind,
		Category: proto.Category,
		Color:    proto.Color,
	}
	for _, cp := range proto.Contents {
		e.Give(s.Build(cp))
	}
	return e
}

func (s *DefaultSpawner) newID() uuid.UUID {
	if s.ids == nil {
		return uuid.New()
	}
	id, err := uuid.NewRandomFromReader(s.ids)
	if err != nil {
		return uuid.New()
	}
	return id
}
