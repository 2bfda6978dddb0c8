package world

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/entities"
	"dungeonforge/pkg/game/generator"
)

// CheckSolvable walks the world in tree order the way a player would: on
// each floor the reachable area grows as keys are picked up, locked doors
// open once their colour is held, and keys are kept between floors. Returns
// an error naming the first floor whose downstairs stay out of reach.
func CheckSolvable(w *World) error {
	held := mapset.New[string]()
	for _, f := range w.Floors() {
		region := explore(f, held)
		for _, p := range f.Downstairs {
			if !region.Has(p) {
				return fmt.Errorf("floor %s: downstairs at %v needs a key that is never found", f.Label(), p)
			}
		}
	}
	return nil
}

// explore grows the reachable area of f until no new key turns up. Keys
// found are added to held.
func explore(f *Floor, held mapset.Set[string]) mapset.Set[world.Point] {
	for {
		region := generator.ReachableWith(f.Grid, f.Upstairs, func(p world.Point) bool {
			tile := f.Grid.At(p)
			if tile.Kind == world.LockedDoor {
				return held.Has(tile.LockColor)
			}
			return tile.Kind.Traversable()
		})

		found := false
		for _, e := range f.Entities {
			if !region.Has(e.Pos) {
				continue
			}
			for _, color := range keyColors(e) {
				if !held.Has(color) {
					held.Put(color)
					found = true
				}
			}
		}
		if !found {
			return region
		}
	}
}

func keyColors(e *entities.Entity) []string {
	var out []string
	if e.Category == entities.Key {
		out = append(out, e.Color)
	}
	for _, c := range e.Contents {
		out = append(out, keyColors(c)...)
	}
	return out
}
