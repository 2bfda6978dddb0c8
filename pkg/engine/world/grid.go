package world

// Grid is the tile map of one floor. Tiles are stored row-major and start as walls.
type Grid struct {
	tiles  [][]Tile
	width  int
	height int
}

// NewGrid creates a new grid with the given dimensions, filled with walls
func NewGrid(width, height int) *Grid {
	g := &Grid{}
	g.Build(width, height)
	return g
}

// Build initializes the grid with the given dimensions
func (g *Grid) Build(width, height int) {
	if width <= 0 || height <= 0 {
		panic("Grid dimensions must be positive")
	}

	g.width = width
	g.height = height
	g.tiles = make([][]Tile, height)
	for y := 0; y < height; y++ {
		g.tiles[y] = make([]Tile, width)
	}
}

// Width returns the number of columns in the grid
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows in the grid
func (g *Grid) Height() int {
	return g.height
}

// Bounds returns the rectangle covering the whole grid
func (g *Grid) Bounds() Rect {
	return Rect{X: 0, Y: 0, W: g.width, H: g.height}
}

// InBounds checks if a position is within grid bounds
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// IsPlayable checks if a position is within the playable area (not on the perimeter).
// This keeps a 1-tile wall border around the entire map.
func (g *Grid) IsPlayable(p Point) bool {
	return p.X >= 1 && p.X < g.width-1 && p.Y >= 1 && p.Y < g.height-1
}

// IsOnPerimeter checks if a position is on the edge of the grid
func (g *Grid) IsOnPerimeter(p Point) bool {
	return g.InBounds(p) && !g.IsPlayable(p)
}

// At returns the tile at p. Out of bounds positions read as wall.
func (g *Grid) At(p Point) Tile {
	if !g.InBounds(p) {
		return Tile{Kind: Wall}
	}
	return g.tiles[p.Y][p.X]
}

// Kind returns the tile kind at p
func (g *Grid) Kind(p Point) TileKind {
	return g.At(p).Kind
}

// Set stores a tile at p. Returns false if out of bounds.
func (g *Grid) Set(p Point, t Tile) bool {
	if !g.InBounds(p) {
		return false
	}
	g.tiles[p.Y][p.X] = t
	return true
}

// SetKind stores a tile of the given kind with no lock colour. Returns false if out of bounds.
func (g *Grid) SetKind(p Point, kind TileKind) bool {
	return g.Set(p, Tile{Kind: kind})
}

// Walkable reports whether the tile at p can be stood on
func (g *Grid) Walkable(p Point) bool {
	return g.At(p).Walkable()
}

// Transparent reports whether the tile at p lets sight through
func (g *Grid) Transparent(p Point) bool {
	return g.At(p).Transparent()
}

// Traversable reports whether the tile at p counts as passable for reachability
func (g *Grid) Traversable(p Point) bool {
	return g.At(p).Kind.Traversable()
}

// WalkableMask returns the walkable flags as [y][x]
func (g *Grid) WalkableMask() [][]bool {
	return g.mask(Tile.Walkable)
}

// TransparentMask returns the transparency flags as [y][x]
func (g *Grid) TransparentMask() [][]bool {
	return g.mask(Tile.Transparent)
}

func (g *Grid) mask(fn func(Tile) bool) [][]bool {
	out := make([][]bool, g.height)
	for y := 0; y < g.height; y++ {
		out[y] = make([]bool, g.width)
		for x := 0; x < g.width; x++ {
			out[y][x] = fn(g.tiles[y][x])
		}
	}
	return out
}

// ForEach iterates over all tiles in row-major order
func (g *Grid) ForEach(fn func(p Point, t Tile)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(Point{X: x, Y: y}, g.tiles[y][x])
		}
	}
}

// Points returns every position holding the given kind, in row-major order
func (g *Grid) Points(kind TileKind) []Point {
	var out []Point
	g.ForEach(func(p Point, t Tile) {
		if t.Kind == kind {
			out = append(out, p)
		}
	})
	return out
}

// Count returns the number of tiles of the given kind
func (g *Grid) Count(kind TileKind) int {
	n := 0
	g.ForEach(func(_ Point, t Tile) {
		if t.Kind == kind {
			n++
		}
	})
	return n
}

// Fill sets every tile to the given kind
func (g *Grid) Fill(kind TileKind) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.tiles[y][x] = Tile{Kind: kind}
		}
	}
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := &Grid{width: g.width, height: g.height, tiles: make([][]Tile, g.height)}
	for y := range g.tiles {
		c.tiles[y] = append([]Tile(nil), g.tiles[y]...)
	}
	return c
}
