package world

import (
	"fmt"

	"github.com/google/uuid"

	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/entities"
	"dungeonforge/pkg/game/generator"
	"dungeonforge/pkg/game/theme"
)

// Floor is one generated level of the world
type Floor struct {
	ID          uuid.UUID
	Number      int    // 1-based position in its trunk or branch
	Depth       int    // Nominal depth used for lock and spawn gating
	BranchID    int    // 0 for the trunk
	BranchDepth int    // 0 on the trunk, 1.. inside a branch
	EntryFloor  *Floor // Trunk floor a branch hangs off; nil on the trunk
	Generator   string
	Theme       theme.Theme
	Flavour     string

	Grid            *world.Grid
	Entities        []*entities.Entity
	Upstairs        world.Point
	UpstairsTarget  *Floor // nil on the first trunk floor
	Downstairs      []world.Point
	DownstairsExits map[world.Point]*Floor

	RoomTiles  map[world.Point][]world.Point
	RoomInfo   map[world.Point]generator.RoomInfo
	RoomOrder  []world.Point
	LockColors []string
	Features   []generator.Feature

	layout *generator.Layout
}

func newFloor(id uuid.UUID, number, depth, branch int, layout *generator.Layout) *Floor {
	return &Floor{
		ID:              id,
		Number:          number,
		Depth:           depth,
		BranchID:        branch,
		Generator:       layout.Generator,
		Theme:           theme.ForDepth(depth),
		Flavour:         theme.FlavourText(depth),
		Grid:            layout.Grid,
		Upstairs:        layout.Upstairs,
		Downstairs:      append([]world.Point(nil), layout.Downstairs...),
		DownstairsExits: make(map[world.Point]*Floor),
		RoomTiles:       layout.RoomTiles,
		RoomInfo:        layout.RoomInfo,
		RoomOrder:       layout.RoomOrder,
		LockColors:      layout.LockColors,
		Features:        layout.Features,
		layout:          layout,
	}
}

// Label returns the diagnostic name of the floor: "F3" on the trunk, "B1-2"
// for the second floor of branch 1.
func (f *Floor) Label() string {
	if f.BranchID == 0 {
		return fmt.Sprintf("F%d", f.Number)
	}
	return fmt.Sprintf("B%d-%d", f.BranchID, f.BranchDepth)
}

// IsTrunk returns true for floors on the main descent
func (f *Floor) IsTrunk() bool {
	return f.BranchID == 0
}

// AddEntity adds an entity to the floor
func (f *Floor) AddEntity(e *entities.Entity) {
	f.Entities = append(f.Entities, e)
}

// EntitiesOf returns the floor's top-level entities of a category
func (f *Floor) EntitiesOf(c entities.Category) []*entities.Entity {
	var out []*entities.Entity
	for _, e := range f.Entities {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// EntityAt returns the entity standing at p, if any
func (f *Floor) EntityAt(p world.Point) *entities.Entity {
	for _, e := range f.Entities {
		if e.Pos == p {
			return e
		}
	}
	return nil
}

// HasKey reports whether any entity on the floor is or holds a key of the colour
func (f *Floor) HasKey(color string) bool {
	for _, e := range f.Entities {
		if e.HasKey(color) {
			return true
		}
	}
	return false
}

// HasLock reports whether the floor has a locked door of the colour
func (f *Floor) HasLock(color string) bool {
	for _, c := range f.LockColors {
		if c == color {
			return true
		}
	}
	return false
}

// RoomAt returns the centre and info of the room holding p
func (f *Floor) RoomAt(p world.Point) (world.Point, generator.RoomInfo, bool) {
	for _, c := range f.RoomOrder {
		for _, t := range f.RoomTiles[c] {
			if t == p {
				return c, f.RoomInfo[c], true
			}
		}
	}
	return world.Point{}, generator.RoomInfo{}, false
}

func (f *Floor) stairs() []world.Point {
	return append([]world.Point{f.Upstairs}, f.Downstairs...)
}
