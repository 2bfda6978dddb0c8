// Package devtools provides developer tools for inspecting generated worlds.
package devtools

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gookit/color"

	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/entities"
	gameworld "dungeonforge/pkg/game/world"
)

// DumpOptions controls what DumpWorld writes
type DumpOptions struct {
	Maps    bool          // Include the tile map of every floor
	Color   bool          // Colour map glyphs with ANSI codes
	Palette world.Palette // Tile glyphs and colours; nil uses the default palette
}

// lockStyles colours locked doors by their lock colour
var lockStyles = map[string]color.Color{
	"red":    color.FgRed,
	"blue":   color.FgBlue,
	"green":  color.FgGreen,
	"yellow": color.FgYellow,
	"purple": color.FgMagenta,
	"cyan":   color.FgCyan,
}

// entityGlyph returns the map symbol drawn over a tile holding e
func entityGlyph(e *entities.Entity) rune {
	switch e.Category {
	case entities.Monster:
		return 'm'
	case entities.Item:
		return 'i'
	case entities.Container:
		return 'c'
	case entities.NPC:
		return 'n'
	case entities.Key:
		return 'k'
	default:
		return '?'
	}
}

// floorSymbol returns the symbol for a tile, entities drawn over terrain
func floorSymbol(f *gameworld.Floor, p world.Point, opts DumpOptions) string {
	if e := f.EntityAt(p); e != nil {
		s := string(entityGlyph(e))
		if opts.Color {
			return color.Style{color.FgGreen, color.OpBold}.Sprint(s)
		}
		return s
	}
	tile := f.Grid.At(p)
	s := string(opts.Palette.Glyph(tile.Kind))
	if !opts.Color {
		return s
	}
	if tile.Kind == world.LockedDoor {
		if c, ok := lockStyles[tile.LockColor]; ok {
			return color.Style{c, color.OpBold}.Sprint(s)
		}
	}
	if a, ok := opts.Palette[tile.Kind]; ok {
		return color.HEX(a.Light).Sprint(s)
	}
	return s
}

// writeFloorMap writes the tile grid of a floor
func writeFloorMap(out io.Writer, f *gameworld.Floor, opts DumpOptions) {
	for y := 0; y < f.Grid.Height(); y++ {
		for x := 0; x < f.Grid.Width(); x++ {
			fmt.Fprint(out, floorSymbol(f, world.Pt(x, y), opts))
		}
		fmt.Fprintln(out)
	}
}

// DumpWorld writes a debug dump of the world: metadata, branch structure,
// key locations and one section per floor in tree order. Format is human
// readable with key: value lines.
func DumpWorld(w io.Writer, gw *gameworld.World, opts DumpOptions) error {
	if gw == nil {
		return fmt.Errorf("no world")
	}
	if opts.Palette == nil {
		opts.Palette = world.DefaultPalette()
	}
	out := bufio.NewWriter(w)

	// --- Metadata ---
	fmt.Fprintln(out, "=== WORLD DUMP ===")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "--- Metadata ---")
	fmt.Fprintf(out, "world_id: %s\n", gw.ID)
	fmt.Fprintf(out, "seed: %d\n", gw.Seed)
	fmt.Fprintf(out, "trunk_floors: %d\n", len(gw.Trunk))
	fmt.Fprintf(out, "branches: %d\n", len(gw.Branches))
	fmt.Fprintf(out, "total_floors: %d\n", len(gw.Floors()))
	fmt.Fprintln(out, "coordinate_system: x,y (0-based, x=horizontal, y=vertical)")
	fmt.Fprintln(out, "")

	// --- Branches ---
	fmt.Fprintln(out, "--- Branches ---")
	branches := gw.BranchStructure()
	if len(branches) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, b := range branches {
		fmt.Fprintf(out, "  branch: %d entry: %s floors:", b.ID, b.Entry.Label())
		for _, f := range b.Floors {
			fmt.Fprintf(out, " %s", f.Label())
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "")

	// --- Keys ---
	fmt.Fprintln(out, "--- Keys ---")
	if len(gw.Keys) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, k := range gw.Keys {
		fmt.Fprintf(out, "  color: %s floor: %s x: %d y: %d where: %q\n", k.Color, k.Floor.Label(), k.Pos.X, k.Pos.Y, k.Description)
	}
	for _, u := range gw.UnsolvedLocks {
		fmt.Fprintf(out, "  color: %s lock_floor: %s unsolved: true\n", u.Color, u.Floor.Label())
	}
	fmt.Fprintln(out, "")

	// --- Legend ---
	if opts.Maps {
		fmt.Fprintln(out, "--- Legend ---")
		fmt.Fprintln(out, "# = wall  . = floor  % = breakable wall  + = door  ' = open door  < = up  > = down  m = monster  i = item  c = container  n = npc  k = key")
		fmt.Fprintln(out, "")
	}

	for _, f := range gw.Floors() {
		dumpFloor(out, gw, f, opts)
	}

	fmt.Fprintln(out, "=== END WORLD DUMP ===")
	return out.Flush()
}

func dumpFloor(out io.Writer, gw *gameworld.World, f *gameworld.Floor, opts DumpOptions) {
	fmt.Fprintf(out, "--- Floor %s ---\n", f.Label())
	fmt.Fprintf(out, "floor_id: %s\n", f.ID)
	fmt.Fprintf(out, "depth: %d\n", f.Depth)
	fmt.Fprintf(out, "generator: %s\n", f.Generator)
	fmt.Fprintf(out, "theme: %s\n", f.Theme)
	fmt.Fprintf(out, "size: %dx%d\n", f.Grid.Width(), f.Grid.Height())
	up := "(none)"
	if f.UpstairsTarget != nil {
		up = f.UpstairsTarget.Label()
	}
	fmt.Fprintf(out, "upstairs: %d,%d -> %s\n", f.Upstairs.X, f.Upstairs.Y, up)
	for _, p := range f.Downstairs {
		dest := "(none)"
		if d, ok := gw.DownstairsDestination(f, p); ok {
			dest = d.Label()
		}
		fmt.Fprintf(out, "downstairs: %d,%d -> %s\n", p.X, p.Y, dest)
	}
	fmt.Fprintf(out, "locks: %v\n", f.LockColors)

	fmt.Fprintln(out, "Rooms:")
	for _, c := range f.RoomOrder {
		info := f.RoomInfo[c]
		fmt.Fprintf(out, "  x: %d y: %d name: %q shape: %s tiles: %d\n", c.X, c.Y, info.Name, info.Shape, len(f.RoomTiles[c]))
	}
	fmt.Fprintln(out, "Entities:")
	for _, e := range f.Entities {
		fmt.Fprintf(out, "  x: %d y: %d category: %s name: %q", e.Pos.X, e.Pos.Y, e.Category, e.Name())
		for _, c := range e.Contents {
			fmt.Fprintf(out, " holds: %q", c.Name())
		}
		fmt.Fprintln(out)
	}
	if opts.Maps {
		fmt.Fprintln(out, "Map:")
		writeFloorMap(out, f, opts)
	}
	fmt.Fprintln(out, "")
}

// DumpWorldToFile writes the dump to filename and returns its absolute path
func DumpWorldToFile(gw *gameworld.World, filename string, opts DumpOptions) (string, error) {
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	f, err := os.Create(absPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := DumpWorld(f, gw, opts); err != nil {
		return absPath, err
	}
	if err := f.Sync(); err != nil {
		return absPath, err
	}
	return absPath, nil
}
