package generator

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"dungeonforge/pkg/engine/world"
)

// Connectivity errors
var (
	ErrUnreachable = errors.New("goal unreachable from entry")
	ErrOutOfBounds = errors.New("point outside the grid")
)

// Reachable returns every tile reachable from start over traversable tiles.
// Doors count as traversable whatever their lock state, as do breakable walls.
func Reachable(grid *world.Grid, start world.Point) mapset.Set[world.Point] {
	visited := mapset.New[world.Point]()
	order, _ := walk(grid, start)
	for _, p := range order {
		visited.Put(p)
	}
	return visited
}

// PathExists reports whether to can be reached from `from`
func PathExists(grid *world.Grid, from, to world.Point) bool {
	return Reachable(grid, from).Has(to)
}

// Distances returns the BFS step count from start to every reachable tile,
// along with the tiles in visiting order.
func Distances(grid *world.Grid, start world.Point) ([]world.Point, map[world.Point]int) {
	return walk(grid, start)
}

// walk is a breadth first search over traversable tiles. The start tile is
// always visited, even when it is not traversable itself.
func walk(grid *world.Grid, start world.Point) ([]world.Point, map[world.Point]int) {
	return walkWith(grid, start, grid.Traversable)
}

// ReachableUnlocked is Reachable with locked doors treated as walls: the
// tiles a player can visit without any key.
func ReachableUnlocked(grid *world.Grid, start world.Point) mapset.Set[world.Point] {
	return ReachableWith(grid, start, func(p world.Point) bool {
		return grid.Traversable(p) && grid.Kind(p) != world.LockedDoor
	})
}

// ReachableWith returns every tile reachable from start over tiles for which
// pass returns true
func ReachableWith(grid *world.Grid, start world.Point, pass func(world.Point) bool) mapset.Set[world.Point] {
	visited := mapset.New[world.Point]()
	order, _ := walkWith(grid, start, pass)
	for _, p := range order {
		visited.Put(p)
	}
	return visited
}

func walkWith(grid *world.Grid, start world.Point, pass func(world.Point) bool) ([]world.Point, map[world.Point]int) {
	if !grid.InBounds(start) {
		return nil, map[world.Point]int{}
	}
	dist := map[world.Point]int{start: 0}
	order := []world.Point{start}
	queue := []world.Point{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range current.Neighbors4() {
			if _, seen := dist[n]; seen || !pass(n) {
				continue
			}
			dist[n] = dist[current] + 1
			order = append(order, n)
			queue = append(queue, n)
		}
	}
	return order, dist
}

// Farthest returns the reachable tile of the given kind with the longest path
// from start. Ties go to the tile visited first. ok is false if none is reachable.
func Farthest(grid *world.Grid, start world.Point, kind world.TileKind, exclude mapset.Set[world.Point]) (world.Point, bool) {
	order, dist := walk(grid, start)
	best, bestDist := world.Point{}, -1
	for _, p := range order {
		if grid.Kind(p) != kind || exclude.Has(p) {
			continue
		}
		if dist[p] > bestDist {
			best, bestDist = p, dist[p]
		}
	}
	return best, bestDist >= 0
}

// ForceConnect carves an L-shaped path from `from` to `to`, horizontal leg
// first, turning every non-traversable tile on the way into floor.
func ForceConnect(grid *world.Grid, from, to world.Point) error {
	if !grid.InBounds(from) {
		return fmt.Errorf("force connect from %v: %w", from, ErrOutOfBounds)
	}
	if !grid.InBounds(to) {
		return fmt.Errorf("force connect to %v: %w", to, ErrOutOfBounds)
	}
	corner := world.Pt(to.X, from.Y)
	path := append(world.Line(from, corner), world.Line(corner, to)...)
	for _, p := range path {
		if !grid.Traversable(p) {
			grid.SetKind(p, world.Floor)
		}
	}
	return nil
}

// Validate checks every goal is reachable from entry, force-connecting any
// that are not. The grid is left untouched when everything is already
// reachable. Returns the number of repairs made.
func Validate(grid *world.Grid, entry world.Point, goals []world.Point) (int, error) {
	reach := Reachable(grid, entry)
	repaired := 0
	for _, goal := range goals {
		if reach.Has(goal) {
			continue
		}
		if err := ForceConnect(grid, entry, goal); err != nil {
			return repaired, err
		}
		repaired++
		reach = Reachable(grid, entry)
	}
	for _, goal := range goals {
		if !reach.Has(goal) {
			return repaired, fmt.Errorf("goal %v from %v: %w", goal, entry, ErrUnreachable)
		}
	}
	return repaired, nil
}

// SealUnreachable walls off walkable tiles that cannot be reached from entry.
// Returns the number of tiles sealed.
func SealUnreachable(grid *world.Grid, entry world.Point) int {
	reach := Reachable(grid, entry)
	sealed := 0
	grid.ForEach(func(p world.Point, t world.Tile) {
		if t.Walkable() && !reach.Has(p) {
			grid.SetKind(p, world.Wall)
			sealed++
		}
	})
	return sealed
}
