package world

import (
	"fmt"
	"strings"

	"dungeonforge/pkg/game/generator"
)

// Config holds every world generation setting
type Config struct {
	Floors           int                     `mapstructure:"floors"`
	Width            int                     `mapstructure:"width"`
	Height           int                     `mapstructure:"height"`
	MaxFloorAttempts int                     `mapstructure:"max_floor_attempts"`
	Planner          generator.PlannerConfig `mapstructure:"planner"`
	Graph            generator.GraphConfig   `mapstructure:"graph"`
	Features         generator.FeatureConfig `mapstructure:"features"`
	Cavern           generator.CavernConfig  `mapstructure:"cavern"`
	Selection        SelectionConfig         `mapstructure:"selection"`
	Branch           BranchConfig            `mapstructure:"branch"`
	Keys             KeyConfig               `mapstructure:"keys"`
}

// BranchConfig controls the side dungeons hanging off the trunk
type BranchConfig struct {
	Count      int   `mapstructure:"count"`
	Length     int   `mapstructure:"length"`
	Candidates []int `mapstructure:"candidates"` // Trunk floor numbers that may host a branch
}

// KeyConfig controls where keys end up
type KeyConfig struct {
	BranchChance    float64 `mapstructure:"branch_chance"`    // Prefer a branch floor when one is eligible
	MonsterChance   float64 `mapstructure:"monster_chance"`   // Give the key to a monster
	ContainerChance float64 `mapstructure:"container_chance"` // Otherwise put it in a container
}

// DefaultConfig returns the stock world settings
func DefaultConfig() Config {
	return Config{
		Floors:           8,
		Width:            80,
		Height:           36,
		MaxFloorAttempts: 10,
		Planner:          generator.DefaultPlannerConfig(),
		Graph:            generator.DefaultGraphConfig(),
		Features:         generator.DefaultFeatureConfig(),
		Cavern:           generator.DefaultCavernConfig(),
		Selection: SelectionConfig{
			CavernChance:   0.15,
			CavernMinFloor: 3,
			FixedFloors:    []FixedFloor{{Floor: 5, Template: "gatehouse"}},
		},
		Branch: BranchConfig{
			Count:      2,
			Length:     3,
			Candidates: []int{2, 3, 4, 6, 7},
		},
		Keys: KeyConfig{
			BranchChance:    0.5,
			MonsterChance:   0.3,
			ContainerChance: 0.3,
		},
	}
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if c.Floors < 1 {
		errs = append(errs, fmt.Sprintf("floors must be >= 1, got %d", c.Floors))
	}
	if c.Width < generator.MinFloorSize || c.Height < generator.MinFloorSize {
		errs = append(errs, fmt.Sprintf("width and height must be >= %d, got %dx%d", generator.MinFloorSize, c.Width, c.Height))
	}
	if c.MaxFloorAttempts < 1 {
		errs = append(errs, fmt.Sprintf("max_floor_attempts must be >= 1, got %d", c.MaxFloorAttempts))
	}

	p := c.Planner
	if p.TargetRooms < 1 {
		errs = append(errs, fmt.Sprintf("planner.target_rooms must be >= 1, got %d", p.TargetRooms))
	}
	if p.MaxAttempts < 0 {
		errs = append(errs, "planner.max_attempts must not be negative")
	}
	if p.MinSize < 3 || p.MaxSize < p.MinSize {
		errs = append(errs, fmt.Sprintf("planner sizes must satisfy 3 <= min_size <= max_size, got %d..%d", p.MinSize, p.MaxSize))
	}
	if p.Padding < 0 {
		errs = append(errs, "planner.padding must not be negative")
	}
	if !isChance(p.FixedChance) || !isChance(p.UniqueChance) {
		errs = append(errs, "planner fixed_chance and unique_chance must be within [0, 1]")
	}

	f := c.Features
	if f.NoneWeight < 0 || f.DoorWeight < 0 || f.BreakableWeight < 0 {
		errs = append(errs, "feature weights must not be negative")
	}
	if !isChance(f.LockChance) {
		errs = append(errs, "features.lock_chance must be within [0, 1]")
	}
	colors := map[string]bool{}
	for _, lock := range f.Locks {
		if lock.Color == "" {
			errs = append(errs, "features.locks: color must not be empty")
		}
		if colors[lock.Color] {
			errs = append(errs, fmt.Sprintf("features.locks: duplicate color %q", lock.Color))
		}
		colors[lock.Color] = true
		// Floor 1 must stay lock-free so every key has an earlier floor to go to
		if lock.MinFloor < 2 {
			errs = append(errs, fmt.Sprintf("features.locks: %q min_floor must be >= 2, got %d", lock.Color, lock.MinFloor))
		}
	}

	for _, fixed := range c.Selection.FixedFloors {
		if fixed.Floor < 1 || fixed.Template == "" {
			errs = append(errs, fmt.Sprintf("selection.fixed_floors: invalid entry %+v", fixed))
		}
	}
	if !isChance(c.Selection.CavernChance) {
		errs = append(errs, "selection.cavern_chance must be within [0, 1]")
	}

	if c.Branch.Count < 0 || c.Branch.Length < 0 {
		errs = append(errs, "branch count and length must not be negative")
	}
	if c.Branch.Count > 0 && c.Branch.Length < 1 {
		errs = append(errs, "branch.length must be >= 1 when branches are enabled")
	}

	k := c.Keys
	if !isChance(k.BranchChance) || !isChance(k.MonsterChance) || !isChance(k.ContainerChance) {
		errs = append(errs, "key chances must be within [0, 1]")
	}

	if len(errs) > 0 {
		return fmt.Errorf("world configuration invalid: %s", strings.Join(errs, "; "))
	}
	return nil
}

func isChance(p float64) bool {
	return p >= 0 && p <= 1
}
