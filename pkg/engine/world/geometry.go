// Package world provides generic 2D tile-based world primitives.
// These are engine-level constructs usable by any tile-based game.
package world

import "fmt"

// Point is a tile coordinate. X grows eastwards, Y grows southwards.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// String returns "x,y"
func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Add returns p translated by (dx, dy)
func (p Point) Add(dx, dy int) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Neighbors4 returns the four orthogonal neighbours of p in N, E, S, W order.
// Bounds are not checked.
func (p Point) Neighbors4() []Point {
	out := make([]Point, 0, 4)
	for _, dir := range AllDirections() {
		out = append(out, dir.Step(p))
	}
	return out
}

// Manhattan returns |dx| + |dy|
func Manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Chebyshev returns max(|dx|, |dy|)
func Chebyshev(a, b Point) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Rect is an axis-aligned rectangle anchored at (X, Y) with width W and height H.
// The right and bottom edges X2/Y2 are exclusive.
type Rect struct {
	X int
	Y int
	W int
	H int
}

// NewRect creates a rectangle
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// X2 returns the exclusive right edge
func (r Rect) X2() int {
	return r.X + r.W
}

// Y2 returns the exclusive bottom edge
func (r Rect) Y2() int {
	return r.Y + r.H
}

// Center returns the integer centre of the rectangle
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p lies inside the rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X2() && p.Y >= r.Y && p.Y < r.Y2()
}

// OnEdge reports whether p lies on the outermost ring of the rectangle
func (r Rect) OnEdge(p Point) bool {
	if !r.Contains(p) {
		return false
	}
	return p.X == r.X || p.X == r.X2()-1 || p.Y == r.Y || p.Y == r.Y2()-1
}

// Pad grows the rectangle by n tiles on every side
func (r Rect) Pad(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, W: r.W + 2*n, H: r.H + 2*n}
}

// Inner shrinks the rectangle by one tile on every side
func (r Rect) Inner() Rect {
	return Rect{X: r.X + 1, Y: r.Y + 1, W: r.W - 2, H: r.H - 2}
}

// Intersects reports whether the two rectangles share at least one tile
func (r Rect) Intersects(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.X < o.X2() && o.X < r.X2() && r.Y < o.Y2() && o.Y < r.Y2()
}

// Points returns every tile of the rectangle in row-major order
func (r Rect) Points() []Point {
	if r.W <= 0 || r.H <= 0 {
		return nil
	}
	out := make([]Point, 0, r.W*r.H)
	for y := r.Y; y < r.Y2(); y++ {
		for x := r.X; x < r.X2(); x++ {
			out = append(out, Point{X: x, Y: y})
		}
	}
	return out
}

// String returns a compact description of the rectangle
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
