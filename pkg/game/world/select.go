package world

import (
	"fmt"

	"dungeonforge/pkg/game/generator"
)

// Kind is the family of generator used for a floor
type Kind int

// Generator kinds
const (
	Trunk Kind = iota
	Cavern
	FixedTemplate
)

// GeneratorKind is the generator chosen for one floor
type GeneratorKind struct {
	Kind     Kind
	Template string // Floor template name, FixedTemplate only
}

// String returns the generator name as it appears in layouts and logs
func (k GeneratorKind) String() string {
	switch k.Kind {
	case Cavern:
		return "cavern"
	case FixedTemplate:
		return "fixed:" + k.Template
	default:
		return "rooms"
	}
}

// FixedFloor pins a trunk floor to a whole-floor template
type FixedFloor struct {
	Floor    int    `mapstructure:"floor"`
	Template string `mapstructure:"template"`
}

// SelectionConfig decides which generator builds each trunk floor
type SelectionConfig struct {
	CavernChance   float64      `mapstructure:"cavern_chance"`
	CavernMinFloor int          `mapstructure:"cavern_min_floor"`
	FixedFloors    []FixedFloor `mapstructure:"fixed_floors"`
}

// SelectGenerator picks the generator for a trunk floor. roll is a value in
// [0, 1) drawn once per floor, so retries of the same floor keep its kind.
// Fixed floors win over the cavern roll.
func SelectGenerator(depth int, cfg SelectionConfig, roll float64) GeneratorKind {
	for _, f := range cfg.FixedFloors {
		if f.Floor == depth {
			return GeneratorKind{Kind: FixedTemplate, Template: f.Template}
		}
	}
	if depth >= cfg.CavernMinFloor && roll < cfg.CavernChance {
		return GeneratorKind{Kind: Cavern}
	}
	return GeneratorKind{Kind: Trunk}
}

// generatorFor builds the floor generator for a kind
func (b *builder) generatorFor(kind GeneratorKind) (generator.FloorGenerator, error) {
	switch kind.Kind {
	case Cavern:
		return &generator.CavernGenerator{Config: b.cfg.Cavern}, nil
	case FixedTemplate:
		t, ok := b.templates.Floor(kind.Template)
		if !ok {
			return nil, fmt.Errorf("unknown floor template %q", kind.Template)
		}
		return &generator.FixedGenerator{Template: t}, nil
	default:
		return b.rooms, nil
	}
}
