package generator

import (
	"fmt"

	"github.com/leonelquinteros/gotext"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

// CavernConfig controls the cellular automaton
type CavernConfig struct {
	FillChance float64 `mapstructure:"fill_chance"` // Initial wall probability
	Smoothing  int     `mapstructure:"smoothing"`
	SectorSize int     `mapstructure:"sector_size"` // Side of the pseudo-rooms used for spawning
	MinOpen    float64 `mapstructure:"min_open"`    // Minimum share of the map the kept cave must cover
}

// DefaultCavernConfig returns the stock cavern settings
func DefaultCavernConfig() CavernConfig {
	return CavernConfig{FillChance: 0.45, Smoothing: 4, SectorSize: 10, MinOpen: 0.2}
}

// CavernGenerator builds room-less cave floors: noise, smoothing, then the
// largest connected region is kept.
type CavernGenerator struct {
	Config CavernConfig
}

// Name returns the name of this generator
func (c *CavernGenerator) Name() string {
	return "cavern"
}

// Generate builds a cave floor
func (c *CavernGenerator) Generate(ctx *Context, req Request) (*Layout, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	ctx.Depth = req.Depth
	g := ctx.RNG
	grid := world.NewGrid(req.Width, req.Height)

	for _, p := range grid.Bounds().Inner().Points() {
		if !g.Chance(c.Config.FillChance) {
			grid.SetKind(p, world.Floor)
		}
	}
	for i := 0; i < c.Config.Smoothing; i++ {
		smooth(grid)
	}

	region := largestRegion(grid)
	open := float64(len(region)) / float64(req.Width*req.Height)
	if len(region) == 0 || open < c.Config.MinOpen {
		return nil, fmt.Errorf("cavern open area %.2f below %.2f: %w", open, c.Config.MinOpen, ErrUnreachable)
	}

	var upstairs world.Point
	if req.Entry != nil && grid.IsPlayable(*req.Entry) {
		upstairs = *req.Entry
	} else {
		upstairs, _ = rng.Choice(g, region)
	}
	grid.SetKind(upstairs, world.UpStairs)
	// Tie the landing into the cave when it fell on rock
	if _, err := Validate(grid, upstairs, []world.Point{region[0]}); err != nil {
		return nil, err
	}

	downstairs := cavernExits(grid, upstairs, req.Exits, g)
	if len(downstairs) < req.Exits {
		return nil, fmt.Errorf("placed %d of %d exits: %w", len(downstairs), req.Exits, ErrUnreachable)
	}
	if _, err := Validate(grid, upstairs, downstairs); err != nil {
		return nil, err
	}
	SealUnreachable(grid, upstairs)

	layout := newLayout(c.Name(), grid)
	layout.Open = true
	layout.Upstairs = upstairs
	layout.Downstairs = downstairs
	c.addSectors(layout, ctx.FloorLabel)

	ctx.Log().Debug("generated floor",
		zap.String("generator", c.Name()),
		zap.Int("open_tiles", grid.Count(world.Floor)),
		zap.Int("sectors", layout.Rooms()),
	)
	return layout, nil
}

// smooth applies one automaton step: more than four walls among the eight
// neighbours makes a wall, fewer than four makes floor.
func smooth(grid *world.Grid) {
	next := grid.Clone()
	for _, p := range grid.Bounds().Inner().Points() {
		walls := 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if (dx != 0 || dy != 0) && grid.Kind(p.Add(dx, dy)) == world.Wall {
					walls++
				}
			}
		}
		switch {
		case walls > 4:
			next.SetKind(p, world.Wall)
		case walls < 4:
			next.SetKind(p, world.Floor)
		}
	}
	grid.ForEach(func(p world.Point, _ world.Tile) {
		grid.Set(p, next.At(p))
	})
}

// largestRegion keeps the biggest 4-connected floor region and fills the rest.
// Returns the region's tiles in visiting order.
func largestRegion(grid *world.Grid) []world.Point {
	seen := mapset.New[world.Point]()
	var best []world.Point
	for _, p := range grid.Points(world.Floor) {
		if seen.Has(p) {
			continue
		}
		order, _ := walk(grid, p)
		for _, q := range order {
			seen.Put(q)
		}
		if len(order) > len(best) {
			best = order
		}
	}
	keep := mapset.New[world.Point]()
	for _, p := range best {
		keep.Put(p)
	}
	for _, p := range grid.Points(world.Floor) {
		if !keep.Has(p) {
			grid.SetKind(p, world.Wall)
		}
	}
	return best
}

// cavernExits picks n distinct floor tiles among the farthest tenth of the cave
func cavernExits(grid *world.Grid, upstairs world.Point, n int, g *rng.RNG) []world.Point {
	if n <= 0 {
		return nil
	}
	order, _ := Distances(grid, upstairs)
	var floor []world.Point
	for _, p := range order {
		if grid.Kind(p) == world.Floor {
			floor = append(floor, p)
		}
	}
	var out []world.Point
	for len(out) < n && len(floor) > 0 {
		tail := max(1, len(floor)/10)
		i := len(floor) - 1 - g.Intn(tail)
		p := floor[i]
		floor = append(floor[:i], floor[i+1:]...)
		grid.SetKind(p, world.DownStairs)
		out = append(out, p)
	}
	return out
}

// addSectors registers square sectors of the cave as pseudo-rooms
func (c *CavernGenerator) addSectors(l *Layout, floorLabel string) {
	size := max(c.Config.SectorSize, 3)
	grid := l.Grid
	for y := 0; y < grid.Height(); y += size {
		for x := 0; x < grid.Width(); x += size {
			sector := world.NewRect(x, y, min(size, grid.Width()-x), min(size, grid.Height()-y))
			var tiles []world.Point
			for _, p := range sector.Points() {
				if grid.Walkable(p) {
					tiles = append(tiles, p)
				}
			}
			if len(tiles) < size {
				continue
			}
			l.addRoom(sector.Center(), tiles, RoomInfo{
				Name:        gotext.Get("Cavern"),
				Description: gotext.Get("A twisting natural cave on %s.", floorLabel),
			})
		}
	}
}
