// Package world assembles generated floors into a dungeon: a trunk of floors
// linked by stairs, side branches hanging off trunk floors, feature hooks,
// spawns and the keys for every locked door.
package world

import (
	"errors"
	"sort"

	"github.com/google/uuid"

	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/entities"
)

// ErrGenerationFailed is returned when a floor could not be built within the attempt budget
var ErrGenerationFailed = errors.New("world generation failed")

// World is a fully generated dungeon
type World struct {
	ID            uuid.UUID
	Seed          int64
	Trunk         []*Floor
	Branches      map[int][]*Floor // Branch ID to its floors, shallowest first
	BranchEntries map[int]int      // Trunk floor number to the branch hanging off it
	Keys          []KeyLocation
	UnsolvedLocks []UnsolvedLock
}

// KeyLocation records where the key for a lock colour was placed
type KeyLocation struct {
	Color       string
	Floor       *Floor
	Pos         world.Point
	Key         *entities.Entity
	Carrier     *entities.Entity // Monster or container holding the key; nil when on the ground
	Description string
}

// UnsolvedLock is a lock colour whose key had no valid floor to go to
type UnsolvedLock struct {
	Color string
	Floor *Floor
}

// BranchInfo summarises one branch for diagnostics
type BranchInfo struct {
	ID     int
	Entry  *Floor
	Floors []*Floor
}

func newWorld(id uuid.UUID, seed int64) *World {
	return &World{
		ID:            id,
		Seed:          seed,
		Branches:      make(map[int][]*Floor),
		BranchEntries: make(map[int]int),
	}
}

// BranchIDs returns the branch IDs in ascending order
func (w *World) BranchIDs() []int {
	ids := make([]int, 0, len(w.Branches))
	for id := range w.Branches {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Floors returns every floor in tree order: each trunk floor is followed by
// the branch hanging off it, if any, before the next trunk floor.
func (w *World) Floors() []*Floor {
	var out []*Floor
	for _, f := range w.Trunk {
		out = append(out, f)
		if id, ok := w.BranchEntries[f.Number]; ok {
			out = append(out, w.Branches[id]...)
		}
	}
	return out
}

// Floor returns floor number n (1-based) of the trunk (branch 0) or a branch
func (w *World) Floor(branch, n int) (*Floor, bool) {
	floors := w.Trunk
	if branch != 0 {
		floors = w.Branches[branch]
	}
	if n < 1 || n > len(floors) {
		return nil, false
	}
	return floors[n-1], true
}

// DownstairsDestination returns the floor a downstairs tile leads to
func (w *World) DownstairsDestination(f *Floor, p world.Point) (*Floor, bool) {
	dest, ok := f.DownstairsExits[p]
	return dest, ok
}

// BranchStructure returns every branch with its entry floor, ordered by ID
func (w *World) BranchStructure() []BranchInfo {
	var out []BranchInfo
	for _, id := range w.BranchIDs() {
		floors := w.Branches[id]
		info := BranchInfo{ID: id, Floors: floors}
		if len(floors) > 0 {
			info.Entry = floors[0].EntryFloor
		}
		out = append(out, info)
	}
	return out
}

// KeyFor returns the placed key location for a colour
func (w *World) KeyFor(color string) (KeyLocation, bool) {
	for _, k := range w.Keys {
		if k.Color == color {
			return k, true
		}
	}
	return KeyLocation{}, false
}

// IsBefore reports whether floor a can be fully visited before the player
// has to reach floor b. Trunk floors are ordered by number; a branch floor
// comes after its entry floor and before the next trunk floor, and inside a
// branch shallower floors come first. For a branch floor b, its own entry
// floor counts as before it.
func IsBefore(a, b *Floor) bool {
	if a == nil || b == nil || a == b {
		return false
	}
	switch {
	case a.IsTrunk() && b.IsTrunk():
		return a.Number < b.Number
	case a.IsTrunk():
		return a.Number <= b.EntryFloor.Number
	case b.IsTrunk():
		return a.EntryFloor.Number < b.Number
	case a.BranchID == b.BranchID:
		return a.BranchDepth < b.BranchDepth
	default:
		return a.EntryFloor.Number < b.EntryFloor.Number
	}
}

// BranchOf returns the ID of the branch hanging off a trunk floor
func (w *World) BranchOf(entry *Floor) (int, bool) {
	if entry == nil || !entry.IsTrunk() {
		return 0, false
	}
	id, ok := w.BranchEntries[entry.Number]
	return id, ok
}

// KeyLocations returns every placed key in placement order
func (w *World) KeyLocations() []KeyLocation {
	return append([]KeyLocation(nil), w.Keys...)
}
