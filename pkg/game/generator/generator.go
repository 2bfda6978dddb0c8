// Package generator builds single floors: room placement, corridor carving,
// entrance features, template stamping and the reachability guarantee.
package generator

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

// MinFloorSize is the smallest width or height a floor may have
const MinFloorSize = 8

// FloorGenerator is an interface for floor generation algorithms
type FloorGenerator interface {
	Generate(ctx *Context, req Request) (*Layout, error)
	Name() string
}

// Request describes the floor to build
type Request struct {
	Depth  int
	Width  int
	Height int
	Entry  *world.Point // Where the player arrives; nil picks a spot
	Exits  int          // Number of downstairs to place
}

func (r Request) validate() error {
	if r.Width < MinFloorSize || r.Height < MinFloorSize {
		return fmt.Errorf("floor size %dx%d is below the %dx%d minimum", r.Width, r.Height, MinFloorSize, MinFloorSize)
	}
	if r.Exits < 0 {
		return fmt.Errorf("exits must be >= 0, got %d", r.Exits)
	}
	return nil
}

// RoomInfo is the display data of a room
type RoomInfo struct {
	Name        string
	Description string
	Shape       Shape
}

// Feature marks a placed unique room whose hook must run once the floor exists
type Feature struct {
	Name     string // Hook name, e.g. FeatureTreasureVault
	Template string
	Anchor   world.Point
	Tiles    []world.Point
}

// Layout is a generated floor before it is attached to a world
type Layout struct {
	Generator  string
	Grid       *world.Grid
	Upstairs   world.Point
	Downstairs []world.Point
	RoomTiles  map[world.Point][]world.Point // Room centre to its tiles
	RoomInfo   map[world.Point]RoomInfo
	RoomOrder  []world.Point // Room centres in placement order
	LockColors []string
	Features   []Feature
	Open       bool // No room structure; extra exits may go on any floor tile
}

func newLayout(name string, grid *world.Grid) *Layout {
	return &Layout{
		Generator: name,
		Grid:      grid,
		RoomTiles: make(map[world.Point][]world.Point),
		RoomInfo:  make(map[world.Point]RoomInfo),
	}
}

func (l *Layout) addRoom(center world.Point, tiles []world.Point, info RoomInfo) {
	if _, exists := l.RoomTiles[center]; !exists {
		l.RoomOrder = append(l.RoomOrder, center)
	}
	l.RoomTiles[center] = tiles
	l.RoomInfo[center] = info
}

// Rooms returns the number of rooms on the floor
func (l *Layout) Rooms() int {
	return len(l.RoomOrder)
}

// Exits returns the upstairs and every downstairs
func (l *Layout) Exits() []world.Point {
	return append([]world.Point{l.Upstairs}, l.Downstairs...)
}

// Validate checks that every exit is reachable from the upstairs
func (l *Layout) Validate() error {
	_, err := Validate(l.Grid, l.Upstairs, l.Downstairs)
	return err
}

// AddExit places an extra downstairs, used to hang a branch off this floor.
// The stairs go on a plain floor tile of a random room that holds no stairs
// yet, or on any floor tile for open layouts. The floor is re-validated and
// left as it was when that fails.
func (l *Layout) AddExit(ctx *Context) (world.Point, error) {
	taken := mapset.New[world.Point]()
	for _, p := range l.Exits() {
		taken.Put(p)
	}

	var candidates []world.Point
	if !l.Open {
		rooms := make([][]world.Point, 0, len(l.RoomOrder))
		for _, c := range l.RoomOrder {
			if tiles := l.stairFreeTiles(l.RoomTiles[c], taken); len(tiles) > 0 && !l.hasStairs(l.RoomTiles[c]) {
				rooms = append(rooms, tiles)
			}
		}
		if tiles, ok := rng.Choice(ctx.RNG, rooms); ok {
			candidates = tiles
		}
	}
	if len(candidates) == 0 {
		candidates = l.stairFreeTiles(l.Grid.Points(world.Floor), taken)
	}

	p, ok := rng.Choice(ctx.RNG, candidates)
	if !ok {
		return world.Point{}, fmt.Errorf("no free floor tile for an extra exit: %w", ErrUnreachable)
	}
	before := l.Grid.Clone()
	l.Grid.SetKind(p, world.DownStairs)
	l.Downstairs = append(l.Downstairs, p)
	if err := l.Validate(); err != nil {
		before.ForEach(func(q world.Point, t world.Tile) { l.Grid.Set(q, t) })
		l.Downstairs = l.Downstairs[:len(l.Downstairs)-1]
		return world.Point{}, err
	}
	ctx.Log().Debug("added extra exit", zap.Stringer("at", p))
	return p, nil
}

func (l *Layout) hasStairs(tiles []world.Point) bool {
	for _, p := range tiles {
		if k := l.Grid.Kind(p); k == world.UpStairs || k == world.DownStairs {
			return true
		}
	}
	return false
}

// stairFreeTiles filters tiles down to plain floor not in taken and not next to stairs
func (l *Layout) stairFreeTiles(tiles []world.Point, taken mapset.Set[world.Point]) []world.Point {
	var out []world.Point
	for _, p := range tiles {
		if l.Grid.Kind(p) != world.Floor || taken.Has(p) {
			continue
		}
		nearStairs := false
		for _, n := range p.Neighbors4() {
			if taken.Has(n) {
				nearStairs = true
				break
			}
		}
		if !nearStairs {
			out = append(out, p)
		}
	}
	return out
}
