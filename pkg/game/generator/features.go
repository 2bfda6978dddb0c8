package generator

import (
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

// LockRule makes a lock colour available from MinFloor onwards
type LockRule struct {
	Color    string `mapstructure:"color"`
	MinFloor int    `mapstructure:"min_floor"`
}

// FeatureConfig controls what appears at room entrances
type FeatureConfig struct {
	NoneWeight      int        `mapstructure:"none_weight"`
	DoorWeight      int        `mapstructure:"door_weight"`
	BreakableWeight int        `mapstructure:"breakable_weight"`
	LockChance      float64    `mapstructure:"lock_chance"`
	Locks           []LockRule `mapstructure:"locks"`
}

// DefaultFeatureConfig returns the stock feature settings
func DefaultFeatureConfig() FeatureConfig {
	return FeatureConfig{
		NoneWeight:      50,
		DoorWeight:      40,
		BreakableWeight: 10,
		LockChance:      0.15,
		Locks: []LockRule{
			{Color: "red", MinFloor: 2},
			{Color: "blue", MinFloor: 4},
			{Color: "green", MinFloor: 6},
		},
	}
}

// EligibleLocks returns the colours allowed on the given floor, in rule order
func EligibleLocks(rules []LockRule, depth int) []string {
	var out []string
	for _, r := range rules {
		if r.MinFloor <= depth {
			out = append(out, r.Color)
		}
	}
	return out
}

type entrance int

const (
	entranceNone entrance = iota
	entranceDoor
	entranceBreakable
)

// PlaceFeatures decides what sits in each natural entrance of the
// non-template rooms: nothing, a door (possibly locked) or a breakable wall.
// Entrances are dug tiles just outside a room's interior that form a doorway.
// Returns the lock colours used, in first-use order.
func PlaceFeatures(ctx *Context, grid *world.Grid, rooms []*Room, carver *Carver, cfg FeatureConfig, depth int) []string {
	g := ctx.RNG
	eligible := EligibleLocks(cfg.Locks, depth)
	weights := map[entrance]int{
		entranceNone:      cfg.NoneWeight,
		entranceDoor:      cfg.DoorWeight,
		entranceBreakable: cfg.BreakableWeight,
	}

	var colors []string
	used := mapset.New[string]()
	done := mapset.New[world.Point]()
	placed := 0

	for _, room := range rooms {
		if room.IsFixed() {
			continue
		}
		for _, p := range carver.DugOrder {
			if done.Has(p) || !isEntrance(grid, room, p) {
				continue
			}
			done.Put(p)

			outcome, _ := rng.WeightedChoice(g, []entrance{entranceNone, entranceDoor, entranceBreakable}, func(e entrance) int {
				return weights[e]
			})
			switch outcome {
			case entranceDoor:
				tile := world.Tile{Kind: world.ClosedDoor}
				if len(eligible) > 0 && g.Chance(cfg.LockChance) {
					color, _ := rng.Choice(g, eligible)
					tile = world.Tile{Kind: world.LockedDoor, LockColor: color}
					if !used.Has(color) {
						used.Put(color)
						colors = append(colors, color)
					}
				}
				grid.Set(p, tile)
				placed++
			case entranceBreakable:
				grid.SetKind(p, world.BreakableWall)
				placed++
			}
		}
	}

	ctx.Log().Debug("placed entrance features", zap.Int("features", placed), zap.Strings("locks", colors))
	return colors
}

// isEntrance reports whether p is a doorway into room: inside its bounds but
// outside its interior, next to the interior, with passable tiles on exactly
// one opposite pair of sides.
func isEntrance(grid *world.Grid, room *Room, p world.Point) bool {
	if !room.Bounds.Contains(p) || room.Contains(p) || grid.Kind(p) != world.Floor {
		return false
	}
	touches := false
	for _, n := range p.Neighbors4() {
		if room.Contains(n) {
			touches = true
		}
		if grid.Kind(n).IsDoor() || grid.Kind(n) == world.BreakableWall {
			return false
		}
	}
	if !touches {
		return false
	}
	n, e, s, w := grid.Traversable(world.North.Step(p)), grid.Traversable(world.East.Step(p)),
		grid.Traversable(world.South.Step(p)), grid.Traversable(world.West.Step(p))
	return (n && s && !e && !w) || (e && w && !n && !s)
}

// PruneTemplateEntries turns template entry points on a template's edge back
// into wall when no corridor reached them, and drops them from the room's
// entry list and interior.
func PruneTemplateEntries(grid *world.Grid, rooms []*Room) int {
	pruned := 0
	for _, room := range rooms {
		if !room.IsFixed() {
			continue
		}
		var kept []world.Point
		for _, p := range room.EntryPoints {
			if _, onEdge := edgeDirection(room.Bounds, p); !onEdge || connectsOutside(grid, room, p) {
				kept = append(kept, p)
				continue
			}
			grid.SetKind(p, world.Wall)
			pruned++
		}
		if len(kept) == len(room.EntryPoints) {
			continue
		}
		keep := mapset.New[world.Point]()
		for _, p := range kept {
			keep.Put(p)
		}
		var interior []world.Point
		for _, p := range room.interior {
			if keep.Has(p) || grid.Kind(p) != world.Wall {
				interior = append(interior, p)
			}
		}
		room.EntryPoints = kept
		room.setInterior(interior)
	}
	return pruned
}

// connectsOutside reports whether p has a passable neighbour outside the room's bounds
func connectsOutside(grid *world.Grid, room *Room, p world.Point) bool {
	for _, n := range p.Neighbors4() {
		if !room.Bounds.Contains(n) && grid.Traversable(n) {
			return true
		}
	}
	return false
}
