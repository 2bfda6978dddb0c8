package generator

import (
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"dungeonforge/pkg/engine/world"
)

// Glyph is what a template character stamps onto the grid
type Glyph struct {
	Kind  world.TileKind
	Entry bool // Corridors may connect here
}

// GlyphTable is the single glyph mapping used by every template stamp.
// Spaces, and any rune missing from the table, leave the grid untouched.
var GlyphTable = map[rune]Glyph{
	'#': {Kind: world.Wall},
	'.': {Kind: world.Floor},
	'+': {Kind: world.ClosedDoor, Entry: true},
	'E': {Kind: world.Floor, Entry: true},
	'=': {Kind: world.BreakableWall},
	'<': {Kind: world.UpStairs},
	'>': {Kind: world.DownStairs},
	'o': {Kind: world.OpenDoor},
}

// Template is a hand-authored ASCII room or floor
type Template struct {
	Name        string   `yaml:"name"`
	Unique      bool     `yaml:"unique,omitempty"`
	Feature     string   `yaml:"feature,omitempty"` // Hook applied once the room is placed
	Description string   `yaml:"description,omitempty"`
	Rows        []string `yaml:"rows"`
}

// Width returns the length of the longest row
func (t *Template) Width() int {
	w := 0
	for _, row := range t.Rows {
		if n := utf8.RuneCountInString(row); n > w {
			w = n
		}
	}
	return w
}

// Height returns the number of rows
func (t *Template) Height() int {
	return len(t.Rows)
}

// Validate checks the template is non-empty and only uses known glyphs
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if t.Width() == 0 {
		return fmt.Errorf("template %q has no rows", t.Name)
	}
	for y, row := range t.Rows {
		for x, r := range []rune(row) {
			if r == ' ' {
				continue
			}
			if _, ok := GlyphTable[r]; !ok {
				return fmt.Errorf("template %q: unknown glyph %q at %d,%d", t.Name, r, x, y)
			}
		}
	}
	return nil
}

// each calls fn for every non-space glyph, with its grid position given origin
func (t *Template) each(origin world.Point, fn func(p world.Point, g Glyph)) {
	for y, row := range t.Rows {
		for x, r := range []rune(row) {
			g, ok := GlyphTable[r]
			if !ok {
				continue
			}
			fn(origin.Add(x, y), g)
		}
	}
}

// Footprint returns every grid tile the template stamps at origin
func (t *Template) Footprint(origin world.Point) []world.Point {
	var out []world.Point
	t.each(origin, func(p world.Point, _ Glyph) {
		out = append(out, p)
	})
	return out
}

// Stamped is the result of stamping a template
type Stamped struct {
	Interior   []world.Point // Walkable tiles and entries
	Entries    []world.Point
	Upstairs   []world.Point
	Downstairs []world.Point
}

// Stamp writes the template onto grid with its top-left corner at origin.
// Tiles outside the grid are skipped.
func (t *Template) Stamp(grid *world.Grid, origin world.Point) Stamped {
	var s Stamped
	t.each(origin, func(p world.Point, g Glyph) {
		if !grid.SetKind(p, g.Kind) {
			return
		}
		if g.Entry {
			s.Entries = append(s.Entries, p)
		}
		if g.Entry || g.Kind.Walkable() {
			s.Interior = append(s.Interior, p)
		}
		switch g.Kind {
		case world.UpStairs:
			s.Upstairs = append(s.Upstairs, p)
		case world.DownStairs:
			s.Downstairs = append(s.Downstairs, p)
		}
	})
	return s
}

// TemplateLibrary holds the templates available to generation
type TemplateLibrary struct {
	Rooms   []Template `yaml:"rooms"`   // Fixed rooms, usable any number of times
	Uniques []Template `yaml:"uniques"` // At most once per world
	Floors  []Template `yaml:"floors"`  // Whole-floor layouts for fixed floors
}

// Floor returns the named whole-floor template
func (l *TemplateLibrary) Floor(name string) (*Template, bool) {
	for i := range l.Floors {
		if l.Floors[i].Name == name {
			return &l.Floors[i], true
		}
	}
	return nil, false
}

// Validate checks every template in the library
func (l *TemplateLibrary) Validate() error {
	for _, group := range [][]Template{l.Rooms, l.Uniques, l.Floors} {
		for i := range group {
			if err := group[i].Validate(); err != nil {
				return err
			}
		}
	}
	for i := range l.Floors {
		s := l.Floors[i].Stamp(world.NewGrid(l.Floors[i].Width(), l.Floors[i].Height()), world.Point{})
		if len(s.Upstairs) == 0 || len(s.Downstairs) == 0 {
			return fmt.Errorf("floor template %q needs both '<' and '>'", l.Floors[i].Name)
		}
	}
	return nil
}

// LoadTemplates reads a template library from a YAML file and merges it over
// the built-in templates. A template replaces a built-in one of the same name.
func LoadTemplates(filename string) (*TemplateLibrary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes YAML template data and merges it over the built-in templates
func ParseTemplates(data []byte) (*TemplateLibrary, error) {
	var loaded TemplateLibrary
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse templates YAML: %w", err)
	}

	lib := DefaultTemplates()
	lib.Rooms = mergeTemplates(lib.Rooms, loaded.Rooms)
	lib.Uniques = mergeTemplates(lib.Uniques, loaded.Uniques)
	lib.Floors = mergeTemplates(lib.Floors, loaded.Floors)
	for i := range lib.Uniques {
		lib.Uniques[i].Unique = true
	}
	if err := lib.Validate(); err != nil {
		return nil, fmt.Errorf("invalid templates: %w", err)
	}
	return lib, nil
}

func mergeTemplates(base, extra []Template) []Template {
	out := append([]Template(nil), base...)
	for _, t := range extra {
		replaced := false
		for i := range out {
			if out[i].Name == t.Name {
				out[i] = t
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, t)
		}
	}
	return out
}

// DefaultTemplates returns the built-in template library
func DefaultTemplates() *TemplateLibrary {
	return &TemplateLibrary{
		Rooms: []Template{
			{
				Name: "pillared hall",
				Rows: []string{
					"#####+#####",
					"#.........#",
					"#..#...#..#",
					"+.........+",
					"#..#...#..#",
					"#.........#",
					"#####+#####",
				},
			},
			{
				Name: "guard post",
				Rows: []string{
					"###+###",
					"#.....#",
					"#.###.#",
					"+.#.#.+",
					"#.#o#.#",
					"#.....#",
					"###+###",
				},
			},
		},
		Uniques: []Template{
			{
				Name:        "treasure vault",
				Unique:      true,
				Feature:     FeatureTreasureVault,
				Description: "A sealed vault, its walls lined with strongboxes.",
				Rows: []string{
					"####+####",
					"#.......#",
					"#.=...=.#",
					"#.......#",
					"#.=...=.#",
					"#.......#",
					"#########",
				},
			},
			{
				Name:        "prison cell",
				Unique:      true,
				Feature:     FeatureCaptive,
				Description: "Rusted bars and a single chained prisoner.",
				Rows: []string{
					"#######",
					"#.....#",
					"E.....#",
					"#.....#",
					"###E###",
				},
			},
		},
		Floors: []Template{
			{
				Name: "gatehouse",
				Rows: []string{
					"##############################",
					"#<.......#..........#........#",
					"#........#..........#........#",
					"#........+....##....+........#",
					"#........#..........#........#",
					"####+#####....==....#####+####",
					"#........#..........#........#",
					"#........#..........#........#",
					"#........+..........+.......>#",
					"#........#..........#........#",
					"##############################",
				},
			},
		},
	}
}

// Built-in unique feature hooks
const (
	FeatureTreasureVault = "treasure_vault"
	FeatureCaptive       = "captive"
)
