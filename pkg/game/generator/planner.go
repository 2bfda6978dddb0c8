package generator

import (
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

// PlannerConfig controls room placement
type PlannerConfig struct {
	TargetRooms  int            `mapstructure:"target_rooms"`
	MaxAttempts  int            `mapstructure:"max_attempts"`
	MinSize      int            `mapstructure:"min_size"` // Bounding size including the wall ring
	MaxSize      int            `mapstructure:"max_size"`
	Padding      int            `mapstructure:"padding"`
	FixedChance  float64        `mapstructure:"fixed_chance"`
	UniqueChance float64        `mapstructure:"unique_chance"`
	ShapeWeights map[string]int `mapstructure:"shape_weights"`
	ShapeMinSize map[string]int `mapstructure:"shape_min_size"` // Minimum of width and height for the shape
}

// DefaultPlannerConfig returns the stock planner settings
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		TargetRooms:  10,
		MaxAttempts:  200,
		MinSize:      6,
		MaxSize:      12,
		Padding:      1,
		FixedChance:  0.05,
		UniqueChance: 0.05,
		ShapeWeights: map[string]int{"rectangle": 60, "circle": 15, "ellipse": 15, "cross": 10},
		ShapeMinSize: map[string]int{"circle": 7, "ellipse": 7, "cross": 7},
	}
}

// Planner places non-overlapping rooms on a grid
type Planner struct {
	Config    PlannerConfig
	Templates *TemplateLibrary
}

// Plan places up to Config.TargetRooms rooms, carving each accepted room into
// grid. It gives up after Config.MaxAttempts tries and always returns at least
// one room.
//
// Postcondition: for every pair of returned rooms A, B, A.Bounds padded by
// Config.Padding does not intersect B.Bounds.
func (p *Planner) Plan(ctx *Context, grid *world.Grid) []*Room {
	cfg := p.Config
	var rooms []*Room

	for attempt := 0; attempt < cfg.MaxAttempts && len(rooms) < cfg.TargetRooms; attempt++ {
		room := p.candidate(ctx, grid)
		if room == nil || overlaps(room, rooms, cfg.Padding) {
			continue
		}
		if room.IsUnique() && !ctx.ClaimUnique(room.Template.Name) {
			continue
		}
		room.Carve(grid)
		nameRoom(room, ctx)
		rooms = append(rooms, room)
	}

	if len(rooms) == 0 {
		room := fallbackRoom(grid, cfg.MinSize)
		room.Carve(grid)
		nameRoom(room, ctx)
		rooms = append(rooms, room)
		ctx.Log().Debug("no room placed, using fallback room", zap.Stringer("bounds", room.Bounds))
	}

	if len(rooms) < cfg.TargetRooms {
		ctx.Log().Debug("room target not reached",
			zap.Int("placed", len(rooms)),
			zap.Int("target", cfg.TargetRooms),
		)
	}
	return rooms
}

// candidate draws one room, template or geometric, positioned inside the grid.
// Returns nil when the grid is too small for any room.
func (p *Planner) candidate(ctx *Context, grid *world.Grid) *Room {
	g := ctx.RNG
	if t := p.drawTemplate(ctx); t != nil {
		if room := placeTemplate(g, grid, t); room != nil {
			return room
		}
		ctx.Log().Debug("template does not fit, using a random room", zap.String("template", t.Name))
	}

	w := min(g.UniformInt(p.Config.MinSize, p.Config.MaxSize), grid.Width())
	h := min(g.UniformInt(p.Config.MinSize, p.Config.MaxSize), grid.Height())
	if w < 3 || h < 3 {
		return nil
	}
	bounds := world.NewRect(g.UniformInt(0, grid.Width()-w), g.UniformInt(0, grid.Height()-h), w, h)
	return NewRoom(bounds, p.drawShape(g, min(w, h)))
}

// drawTemplate rolls for a unique or fixed template. Unique templates already
// used in this world are never drawn.
func (p *Planner) drawTemplate(ctx *Context) *Template {
	if p.Templates == nil {
		return nil
	}
	roll := ctx.RNG.Float64()
	if roll < p.Config.UniqueChance {
		var unused []*Template
		for i := range p.Templates.Uniques {
			if !ctx.UniqueUsed(p.Templates.Uniques[i].Name) {
				unused = append(unused, &p.Templates.Uniques[i])
			}
		}
		if t, ok := rng.Choice(ctx.RNG, unused); ok {
			return t
		}
		return nil
	}
	if roll < p.Config.UniqueChance+p.Config.FixedChance && len(p.Templates.Rooms) > 0 {
		return &p.Templates.Rooms[ctx.RNG.Intn(len(p.Templates.Rooms))]
	}
	return nil
}

// drawShape picks a weighted random shape among those allowed at this size
func (p *Planner) drawShape(g *rng.RNG, size int) Shape {
	shape, ok := rng.WeightedChoice(g, randomShapes, func(s Shape) int {
		if s != Rectangle && size < p.Config.ShapeMinSize[s.String()] {
			return 0
		}
		return p.Config.ShapeWeights[s.String()]
	})
	if !ok {
		return Rectangle
	}
	return shape
}

// placeTemplate positions t inside the playable area. Returns nil when t is
// larger than the area.
func placeTemplate(g *rng.RNG, grid *world.Grid, t *Template) *Room {
	maxX := grid.Width() - 1 - t.Width()
	maxY := grid.Height() - 1 - t.Height()
	if maxX < 1 || maxY < 1 {
		return nil
	}
	return newTemplateRoom(t, world.Pt(g.UniformInt(1, maxX), g.UniformInt(1, maxY)))
}

// fallbackRoom is a rectangle centred on the grid, clamped to its size
func fallbackRoom(grid *world.Grid, size int) *Room {
	w := max(3, min(size, grid.Width()))
	h := max(3, min(size, grid.Height()))
	w = min(w, grid.Width())
	h = min(h, grid.Height())
	return NewRoom(world.NewRect((grid.Width()-w)/2, (grid.Height()-h)/2, w, h), Rectangle)
}

func overlaps(room *Room, rooms []*Room, padding int) bool {
	padded := room.Bounds.Pad(padding)
	for _, other := range rooms {
		if padded.Intersects(other.Bounds) {
			return true
		}
	}
	return false
}
