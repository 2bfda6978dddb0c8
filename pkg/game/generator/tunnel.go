package generator

import (
	"github.com/zyedidia/generic/mapset"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

// Carver digs elbow corridors between connection points. Template tiles other
// than entry points are never dug.
type Carver struct {
	grid      *world.Grid
	forbidden mapset.Set[world.Point]
	outward   map[world.Point]world.Direction // Entry points on a template's edge

	// Dug holds every tile converted from wall to floor, in dig order
	Dug      mapset.Set[world.Point]
	DugOrder []world.Point
}

// NewCarver prepares a carver for grid, protecting the template rooms among rooms
func NewCarver(grid *world.Grid, rooms []*Room) *Carver {
	c := &Carver{
		grid:      grid,
		forbidden: mapset.New[world.Point](),
		outward:   make(map[world.Point]world.Direction),
		Dug:       mapset.New[world.Point](),
	}
	for _, r := range rooms {
		for _, p := range r.forbidden() {
			c.forbidden.Put(p)
		}
		for _, p := range r.EntryPoints {
			if d, ok := edgeDirection(r.Bounds, p); ok {
				c.outward[p] = d
			}
		}
	}
	return c
}

// Tunnel digs an L-shaped corridor from a to b. The bend is chosen at random,
// except when an end is an edge entry of a template, in which case the
// corridor meets it head-on from outside the template.
func (c *Carver) Tunnel(g *rng.RNG, a, b world.Point) {
	horizontalFirst := g.Intn(2) == 0
	if d, ok := c.outward[b]; ok {
		// The last leg must run along d's axis
		horizontalFirst = !d.IsHorizontal()
	}
	if d, ok := c.outward[a]; ok {
		horizontalFirst = d.IsHorizontal()
	}

	corner := world.Pt(a.X, b.Y)
	if horizontalFirst {
		corner = world.Pt(b.X, a.Y)
	}
	for _, p := range world.Line(a, corner) {
		c.dig(p)
	}
	for _, p := range world.Line(corner, b) {
		c.dig(p)
	}
}

func (c *Carver) dig(p world.Point) {
	if c.forbidden.Has(p) || !c.grid.IsPlayable(p) {
		return
	}
	if c.grid.Kind(p) != world.Wall {
		return
	}
	c.grid.SetKind(p, world.Floor)
	if !c.Dug.Has(p) {
		c.Dug.Put(p)
		c.DugOrder = append(c.DugOrder, p)
	}
}

// edgeDirection returns the outward direction of p when it lies on the ring of bounds
func edgeDirection(bounds world.Rect, p world.Point) (world.Direction, bool) {
	switch {
	case !bounds.OnEdge(p):
		return 0, false
	case p.X == bounds.X:
		return world.West, true
	case p.X == bounds.X2()-1:
		return world.East, true
	case p.Y == bounds.Y:
		return world.North, true
	default:
		return world.South, true
	}
}
