package generator

import (
	"fmt"
	"sort"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/world"
)

// RoomsGenerator builds floors from placed rooms joined by a spanning tree of corridors
type RoomsGenerator struct {
	Planner   PlannerConfig
	Graph     GraphConfig
	Features  FeatureConfig
	Templates *TemplateLibrary
}

// Name returns the name of this generator
func (r *RoomsGenerator) Name() string {
	return "rooms"
}

// Generate runs the full pipeline: plan rooms, connect them, dig corridors,
// place entrance features, place stairs and validate reachability.
// Unique templates claimed by a failed attempt are released.
func (r *RoomsGenerator) Generate(ctx *Context, req Request) (layout *Layout, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	ctx.Depth = req.Depth
	g := ctx.RNG
	grid := world.NewGrid(req.Width, req.Height)

	planner := &Planner{Config: r.Planner, Templates: r.Templates}
	rooms := planner.Plan(ctx, grid)
	defer func() {
		if err == nil {
			return
		}
		for _, room := range rooms {
			if room.IsUnique() {
				ctx.ReleaseUnique(room.Template.Name)
			}
		}
	}()

	points := make([]world.Point, 0, len(rooms)+1)
	for _, room := range rooms {
		points = append(points, room.ConnectionPoint(g))
	}

	var landing *world.Point
	if req.Entry != nil && grid.IsPlayable(*req.Entry) {
		entry := *req.Entry
		landing = &entry
		if !grid.Traversable(entry) {
			grid.SetKind(entry, world.Floor)
			points = append(points, entry)
		}
	}

	carver := NewCarver(grid, rooms)
	for _, e := range Connect(points, r.Graph, g) {
		carver.Tunnel(g, points[e.A], points[e.B])
	}
	PruneTemplateEntries(grid, rooms)
	colors := PlaceFeatures(ctx, grid, rooms, carver, r.Features, req.Depth)

	upstairs := firstFloorTile(grid, rooms[0])
	if landing != nil {
		upstairs = *landing
	}
	grid.SetKind(upstairs, world.UpStairs)
	downstairs := placeDownstairs(grid, rooms, upstairs, req.Exits)
	if len(downstairs) < req.Exits {
		return nil, fmt.Errorf("placed %d of %d exits: %w", len(downstairs), req.Exits, ErrUnreachable)
	}

	goals := append([]world.Point(nil), downstairs...)
	for _, room := range rooms {
		goals = append(goals, firstFloorTile(grid, room))
	}
	repaired, err := Validate(grid, upstairs, goals)
	if err != nil {
		ctx.Log().Debug("floor failed validation", zap.Error(err))
		return nil, err
	}
	sealed := SealUnreachable(grid, upstairs)

	layout = newLayout(r.Name(), grid)
	layout.Upstairs = upstairs
	layout.Downstairs = downstairs
	layout.LockColors = presentLocks(grid, colors)
	for _, room := range rooms {
		tiles := reachableTiles(grid, room.Interior())
		layout.addRoom(room.Center(), tiles, RoomInfo{Name: room.Name, Description: room.Description, Shape: room.Shape})
		if room.IsUnique() && room.Template.Feature != "" {
			layout.Features = append(layout.Features, Feature{
				Name:     room.Template.Feature,
				Template: room.Template.Name,
				Anchor:   firstFloorTile(grid, room),
				Tiles:    tiles,
			})
		}
	}

	ctx.Log().Debug("generated floor",
		zap.String("generator", r.Name()),
		zap.Int("rooms", len(rooms)),
		zap.Int("corridor_tiles", carver.Dug.Size()),
		zap.Int("repairs", repaired),
		zap.Int("sealed", sealed),
		zap.Strings("locks", colors),
	)
	return layout, nil
}

// firstFloorTile returns the room's centre when it is plain floor, otherwise
// its first plain floor tile, otherwise the centre.
func firstFloorTile(grid *world.Grid, room *Room) world.Point {
	c := room.Center()
	if room.Contains(c) && grid.Kind(c) == world.Floor {
		return c
	}
	for _, p := range room.Interior() {
		if grid.Kind(p) == world.Floor {
			return p
		}
	}
	return c
}

// placeDownstairs puts n downstairs in the rooms farthest from upstairs, one
// per room. When there are too few rooms the remaining stairs go on the
// farthest free floor tiles.
func placeDownstairs(grid *world.Grid, rooms []*Room, upstairs world.Point, n int) []world.Point {
	if n <= 0 {
		return nil
	}
	_, dist := Distances(grid, upstairs)

	type ranked struct {
		room *Room
		at   world.Point
		dist int
	}
	var candidates []ranked
	for _, room := range rooms {
		if room.Contains(upstairs) {
			continue
		}
		at := firstFloorTile(grid, room)
		if grid.Kind(at) != world.Floor {
			continue
		}
		d, ok := dist[at]
		if !ok {
			d = -1
		}
		candidates = append(candidates, ranked{room: room, at: at, dist: d})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist > candidates[j].dist
	})

	used := mapset.New[world.Point]()
	used.Put(upstairs)
	var out []world.Point
	for _, c := range candidates {
		if len(out) == n {
			break
		}
		grid.SetKind(c.at, world.DownStairs)
		used.Put(c.at)
		out = append(out, c.at)
	}
	for len(out) < n {
		p, ok := Farthest(grid, upstairs, world.Floor, used)
		if !ok {
			break
		}
		grid.SetKind(p, world.DownStairs)
		used.Put(p)
		out = append(out, p)
	}
	return out
}

// reachableTiles keeps the tiles that were not sealed off
func reachableTiles(grid *world.Grid, tiles []world.Point) []world.Point {
	out := make([]world.Point, 0, len(tiles))
	for _, p := range tiles {
		if grid.Kind(p) != world.Wall {
			out = append(out, p)
		}
	}
	return out
}

// presentLocks drops colours whose doors were overwritten after placement
func presentLocks(grid *world.Grid, colors []string) []string {
	present := mapset.New[string]()
	grid.ForEach(func(_ world.Point, t world.Tile) {
		if t.Kind == world.LockedDoor {
			present.Put(t.LockColor)
		}
	})
	var out []string
	for _, c := range colors {
		if present.Has(c) {
			out = append(out, c)
		}
	}
	return out
}
