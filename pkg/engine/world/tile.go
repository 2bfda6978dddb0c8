package world

// TileKind is the structural kind of a tile
type TileKind int

// Tile kinds
const (
	Wall TileKind = iota
	Floor
	BreakableWall
	ClosedDoor
	OpenDoor
	LockedDoor
	UpStairs
	DownStairs
)

// String returns the name of the tile kind
func (k TileKind) String() string {
	switch k {
	case Wall:
		return "wall"
	case Floor:
		return "floor"
	case BreakableWall:
		return "breakable-wall"
	case ClosedDoor:
		return "closed-door"
	case OpenDoor:
		return "open-door"
	case LockedDoor:
		return "locked-door"
	case UpStairs:
		return "up-stairs"
	case DownStairs:
		return "down-stairs"
	default:
		return "unknown"
	}
}

// Walkable returns true if an actor can stand on this kind of tile
func (k TileKind) Walkable() bool {
	switch k {
	case Floor, OpenDoor, UpStairs, DownStairs:
		return true
	default:
		return false
	}
}

// Transparent returns true if this kind of tile does not block sight
func (k TileKind) Transparent() bool {
	return k.Walkable()
}

// IsDoor returns true for closed, open and locked doors
func (k TileKind) IsDoor() bool {
	return k == ClosedDoor || k == OpenDoor || k == LockedDoor
}

// Traversable returns true if the tile counts as passable for reachability.
// Doors are traversable regardless of lock state and breakable walls can be
// knocked down, so both connect the tiles on either side.
func (k TileKind) Traversable() bool {
	return k.Walkable() || k.IsDoor() || k == BreakableWall
}

// Tile is a single map tile
type Tile struct {
	Kind TileKind
	// LockColor is set on LockedDoor tiles
	LockColor string
}

// Walkable returns true if the tile can be stood on
func (t Tile) Walkable() bool {
	return t.Kind.Walkable()
}

// Transparent returns true if the tile does not block sight
func (t Tile) Transparent() bool {
	return t.Kind.Transparent()
}

// Appearance is the render payload attached to a tile kind. The engine never
// interprets it; renderers pick Dark for remembered tiles and Light for tiles
// in view.
type Appearance struct {
	Glyph rune
	Dark  string
	Light string
}

// Palette maps tile kinds to their appearance
type Palette map[TileKind]Appearance

// DefaultPalette returns the stock appearance for every tile kind
func DefaultPalette() Palette {
	return Palette{
		Wall:          {Glyph: '#', Dark: "#000064", Light: "#826e32"},
		Floor:         {Glyph: '.', Dark: "#323296", Light: "#c8b432"},
		BreakableWall: {Glyph: '%', Dark: "#3c2814", Light: "#8c6428"},
		ClosedDoor:    {Glyph: '+', Dark: "#503c1e", Light: "#a0783c"},
		OpenDoor:      {Glyph: '\'', Dark: "#503c1e", Light: "#a0783c"},
		LockedDoor:    {Glyph: '+', Dark: "#641e1e", Light: "#c83c3c"},
		UpStairs:      {Glyph: '<', Dark: "#646464", Light: "#ffffff"},
		DownStairs:    {Glyph: '>', Dark: "#646464", Light: "#ffffff"},
	}
}

// Glyph returns the glyph for kind, or '?' when the palette has no entry
func (p Palette) Glyph(kind TileKind) rune {
	if a, ok := p[kind]; ok {
		return a.Glyph
	}
	return '?'
}
