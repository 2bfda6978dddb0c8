package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

func TestStamp_GlyphTable(t *testing.T) {
	tmpl := &Template{Name: "all glyphs", Rows: []string{
		"#.+E",
		"=<>o",
		"  ..",
	}}
	grid := world.NewGrid(6, 5)
	grid.SetKind(world.Pt(1, 3), world.Floor)

	s := tmpl.Stamp(grid, world.Pt(1, 1))

	want := map[world.Point]world.TileKind{
		world.Pt(1, 1): world.Wall,
		world.Pt(2, 1): world.Floor,
		world.Pt(3, 1): world.ClosedDoor,
		world.Pt(4, 1): world.Floor,
		world.Pt(1, 2): world.BreakableWall,
		world.Pt(2, 2): world.UpStairs,
		world.Pt(3, 2): world.DownStairs,
		world.Pt(4, 2): world.OpenDoor,
		world.Pt(1, 3): world.Floor, // space leaves the grid untouched
	}
	for p, kind := range want {
		if got := grid.Kind(p); got != kind {
			t.Errorf("Kind(%v) = %s, want %s", p, got, kind)
		}
	}
	assert.Equal(t, []world.Point{world.Pt(3, 1), world.Pt(4, 1)}, s.Entries)
	assert.Equal(t, []world.Point{world.Pt(2, 2)}, s.Upstairs)
	assert.Equal(t, []world.Point{world.Pt(3, 2)}, s.Downstairs)
	assert.Contains(t, s.Interior, world.Pt(3, 1))
	assert.NotContains(t, s.Interior, world.Pt(1, 2))
}

func TestTemplate_ValidateUnknownGlyph(t *testing.T) {
	tmpl := &Template{Name: "bad", Rows: []string{"#?#"}}
	assert.Error(t, tmpl.Validate())
}

func TestDefaultTemplates_Valid(t *testing.T) {
	require.NoError(t, DefaultTemplates().Validate())
}

func TestLoadTemplates_MergesByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	data := []byte(`
rooms:
  - name: pillared hall
    rows:
      - "#+#"
      - "#.#"
      - "###"
uniques:
  - name: shrine
    feature: captive
    rows:
      - "#+#"
      - "#.#"
      - "###"
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	lib, err := LoadTemplates(path)
	require.NoError(t, err)

	require.Len(t, lib.Rooms, len(DefaultTemplates().Rooms))
	assert.Equal(t, 3, lib.Rooms[0].Width())
	require.Len(t, lib.Uniques, len(DefaultTemplates().Uniques)+1)
	assert.True(t, lib.Uniques[len(lib.Uniques)-1].Unique)
	_, ok := lib.Floor("gatehouse")
	assert.True(t, ok)
}

func TestLoadTemplates_FloorNeedsStairs(t *testing.T) {
	_, err := ParseTemplates([]byte(`
floors:
  - name: dead end
    rows:
      - "#####"
      - "#<..#"
      - "#####"
`))
	assert.Error(t, err)
}

func TestNameRoom_KeepsPercentSigns(t *testing.T) {
	tmpl := &Template{
		Name:        "50% vault",
		Description: "Half of it, 100% sealed.",
		Rows:        []string{"###", "#.#", "###"},
	}
	r := newTemplateRoom(tmpl, world.Pt(1, 1))
	nameRoom(r, NewContext(rng.New(1), nil))

	assert.Equal(t, "50% Vault", r.Name)
	assert.Equal(t, "Half of it, 100% sealed.", r.Description)
}

func TestNameRoom_GeometricRoomsGetThemeNames(t *testing.T) {
	ctx := NewContext(rng.New(3), nil)
	ctx.Depth = 2
	r := NewRoom(world.NewRect(2, 2, 6, 6), Rectangle)
	nameRoom(r, ctx)

	require.NotEmpty(t, r.Name)
	assert.NotContains(t, r.Name, "%!")
	assert.Contains(t, r.Description, "rectangle")
}
