package generator

import (
	"github.com/leonelquinteros/gotext"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/theme"
)

// Shape is the geometric kind of a room
type Shape int

// Room shapes
const (
	Rectangle Shape = iota
	Circle
	Ellipse
	Cross
	FixedTemplate
	UniqueTemplate
)

var shapeNames = map[Shape]string{
	Rectangle:      "rectangle",
	Circle:         "circle",
	Ellipse:        "ellipse",
	Cross:          "cross",
	FixedTemplate:  "fixed",
	UniqueTemplate: "unique",
}

// String returns the shape name used in configuration
func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// randomShapes are the shapes the planner may draw for a non-template room
var randomShapes = []Shape{Rectangle, Circle, Ellipse, Cross}

// Room is a placed room. It only lives for the duration of one floor
// generation; its tiles end up in the layout's room maps.
type Room struct {
	Bounds      world.Rect
	Shape       Shape
	Template    *Template
	Name        string
	Description string
	EntryPoints []world.Point

	interior []world.Point
	inside   map[world.Point]bool
}

// NewRoom creates a geometric room occupying bounds. The outer ring of bounds
// stays wall.
func NewRoom(bounds world.Rect, shape Shape) *Room {
	return &Room{Bounds: bounds, Shape: shape}
}

// newTemplateRoom creates a room for template t with its top-left corner at origin
func newTemplateRoom(t *Template, origin world.Point) *Room {
	shape := FixedTemplate
	if t.Unique {
		shape = UniqueTemplate
	}
	return &Room{
		Bounds:   world.NewRect(origin.X, origin.Y, t.Width(), t.Height()),
		Shape:    shape,
		Template: t,
	}
}

// IsFixed returns true for rooms stamped from a template
func (r *Room) IsFixed() bool {
	return r.Shape == FixedTemplate || r.Shape == UniqueTemplate
}

// IsUnique returns true for one-off template rooms
func (r *Room) IsUnique() bool {
	return r.Shape == UniqueTemplate
}

// Center returns the centre of the bounding rectangle
func (r *Room) Center() world.Point {
	return r.Bounds.Center()
}

// Interior returns the room's floor tiles in row-major order. Computed on first
// use for geometric rooms; set by Stamp for template rooms.
func (r *Room) Interior() []world.Point {
	if r.interior == nil && !r.IsFixed() {
		r.setInterior(shapeInterior(r.Bounds, r.Shape))
	}
	return r.interior
}

// Contains reports whether p is one of the room's interior tiles
func (r *Room) Contains(p world.Point) bool {
	r.Interior()
	return r.inside[p]
}

func (r *Room) setInterior(tiles []world.Point) {
	r.interior = tiles
	r.inside = make(map[world.Point]bool, len(tiles))
	for _, p := range tiles {
		r.inside[p] = true
	}
}

// Carve writes the room onto grid: interior tiles become floor for geometric
// rooms, template rooms are stamped glyph by glyph.
func (r *Room) Carve(grid *world.Grid) {
	if r.IsFixed() {
		s := r.Template.Stamp(grid, world.Pt(r.Bounds.X, r.Bounds.Y))
		r.setInterior(s.Interior)
		r.EntryPoints = s.Entries
		return
	}
	for _, p := range r.Interior() {
		grid.SetKind(p, world.Floor)
	}
}

// ConnectionPoint is where corridors attach: a random entry point for
// template rooms that declare any, otherwise the centre.
func (r *Room) ConnectionPoint(g *rng.RNG) world.Point {
	if p, ok := rng.Choice(g, r.EntryPoints); ok {
		return p
	}
	if r.IsFixed() && !r.Contains(r.Center()) && len(r.interior) > 0 {
		return r.interior[0]
	}
	return r.Center()
}

// forbidden returns the template tiles corridors must not cross
func (r *Room) forbidden() []world.Point {
	if !r.IsFixed() {
		return nil
	}
	entries := make(map[world.Point]bool, len(r.EntryPoints))
	for _, p := range r.EntryPoints {
		entries[p] = true
	}
	var out []world.Point
	for _, p := range r.Template.Footprint(world.Pt(r.Bounds.X, r.Bounds.Y)) {
		if !entries[p] {
			out = append(out, p)
		}
	}
	return out
}

// shapeInterior enumerates the floor tiles of a geometric shape inside bounds,
// excluding the bounding ring.
func shapeInterior(bounds world.Rect, shape Shape) []world.Point {
	inner := bounds.Inner()
	if inner.W <= 0 || inner.H <= 0 {
		return nil
	}
	c := bounds.Center()
	var keep func(p world.Point) bool

	switch shape {
	case Circle:
		radius := min(bounds.W, bounds.H)/2 - 1
		keep = func(p world.Point) bool {
			dx, dy := p.X-c.X, p.Y-c.Y
			return dx*dx+dy*dy <= radius*radius
		}
	case Ellipse:
		rx := float64(inner.W) / 2
		ry := float64(inner.H) / 2
		cx := float64(inner.X) + float64(inner.W-1)/2
		cy := float64(inner.Y) + float64(inner.H-1)/2
		keep = func(p world.Point) bool {
			nx := (float64(p.X) - cx) / rx
			ny := (float64(p.Y) - cy) / ry
			return nx*nx+ny*ny <= 1.0+1e-9
		}
	case Cross:
		halfW := max(1, inner.W/3) / 2
		halfH := max(1, inner.H/3) / 2
		keep = func(p world.Point) bool {
			return abs(p.X-c.X) <= halfW || abs(p.Y-c.Y) <= halfH
		}
	default:
		keep = func(world.Point) bool { return true }
	}

	var out []world.Point
	for _, p := range inner.Points() {
		if keep(p) || p == c {
			out = append(out, p)
		}
	}
	return out
}

// dynamicGet looks up translation keys that come from template and theme
// data. A function variable keeps go vet's non-constant format check quiet;
// without arguments gotext returns the text unformatted.
var dynamicGet = gotext.Get

// nameRoom gives the room a display name and description drawn from the
// theme of the floor's depth
func nameRoom(r *Room, ctx *Context) {
	if r.IsFixed() && r.Template != nil {
		r.Name = dynamicGet(titleCase(r.Template.Name))
		if r.Template.Description != "" {
			r.Description = dynamicGet(r.Template.Description)
		} else {
			r.Description = gotext.Get("A carefully built %s on %s.", r.Template.Name, ctx.FloorLabel)
		}
		return
	}
	bases, adjectives := theme.RoomNames(theme.ForDepth(ctx.Depth))
	adjective, _ := rng.Choice(ctx.RNG, adjectives)
	base, _ := rng.Choice(ctx.RNG, bases)
	r.Name = dynamicGet(adjective) + " " + dynamicGet(base)
	r.Description = gotext.Get("A %s %s on %s.", r.Shape, dynamicGet(base), ctx.FloorLabel)
}

func titleCase(s string) string {
	out := []rune(s)
	upper := true
	for i, c := range out {
		if upper && c >= 'a' && c <= 'z' {
			out[i] = c - 'a' + 'A'
		}
		upper = c == ' '
	}
	return string(out)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
