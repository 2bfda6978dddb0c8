package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

func TestPlan_NonOverlap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := DefaultPlannerConfig()
		cfg.Padding = rapid.IntRange(0, 3).Draw(t, "padding")
		cfg.TargetRooms = rapid.IntRange(1, 20).Draw(t, "target")
		grid := world.NewGrid(rapid.IntRange(20, 90).Draw(t, "w"), rapid.IntRange(20, 45).Draw(t, "h"))
		ctx := NewContext(rng.New(rapid.Int64().Draw(t, "seed")), nil)

		rooms := (&Planner{Config: cfg, Templates: DefaultTemplates()}).Plan(ctx, grid)

		if len(rooms) == 0 || len(rooms) > cfg.TargetRooms {
			t.Fatalf("placed %d rooms, target %d", len(rooms), cfg.TargetRooms)
		}
		for i, a := range rooms {
			for j, b := range rooms {
				if i != j && a.Bounds.Pad(cfg.Padding).Intersects(b.Bounds) {
					t.Fatalf("rooms %v and %v overlap with padding %d", a.Bounds, b.Bounds, cfg.Padding)
				}
			}
		}
	})
}

func TestPlan_InteriorInsideBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		grid := world.NewGrid(80, 36)
		ctx := NewContext(rng.New(rapid.Int64().Draw(t, "seed")), nil)
		cfg := DefaultPlannerConfig()
		cfg.FixedChance, cfg.UniqueChance = 0.2, 0.2

		for _, room := range (&Planner{Config: cfg, Templates: DefaultTemplates()}).Plan(ctx, grid) {
			for _, p := range room.Interior() {
				if !room.Bounds.Contains(p) {
					t.Fatalf("%s room %v has interior tile %v outside bounds", room.Shape, room.Bounds, p)
				}
			}
			for _, p := range room.EntryPoints {
				if !room.Contains(p) {
					t.Fatalf("entry %v not on interior of %q", p, room.Template.Name)
				}
			}
		}
	})
}

func TestPlan_OnlyOneRoomFits(t *testing.T) {
	cfg := DefaultPlannerConfig()
	cfg.TargetRooms = 2
	cfg.MinSize, cfg.MaxSize = 10, 10
	cfg.FixedChance, cfg.UniqueChance = 0, 0

	ctx := NewContext(rng.New(3), zaptest.NewLogger(t))
	rooms := (&Planner{Config: cfg}).Plan(ctx, world.NewGrid(12, 12))

	require.Len(t, rooms, 1)
}

func TestPlan_FallbackRoomWhenNothingFits(t *testing.T) {
	cfg := DefaultPlannerConfig()
	cfg.MaxAttempts = 0

	ctx := NewContext(rng.New(1), zaptest.NewLogger(t))
	grid := world.NewGrid(20, 20)
	rooms := (&Planner{Config: cfg}).Plan(ctx, grid)

	require.Len(t, rooms, 1)
	assert.Equal(t, world.Floor, grid.Kind(rooms[0].Center()))
}

func TestPlan_UniqueUsedOncePerWorld(t *testing.T) {
	cfg := DefaultPlannerConfig()
	cfg.UniqueChance = 1
	lib := DefaultTemplates()
	ctx := NewContext(rng.New(11), zaptest.NewLogger(t))

	counts := map[string]int{}
	for floor := 0; floor < 5; floor++ {
		for _, room := range (&Planner{Config: cfg, Templates: lib}).Plan(ctx, world.NewGrid(80, 36)) {
			if room.IsUnique() {
				counts[room.Template.Name]++
			}
		}
	}
	for name, n := range counts {
		assert.Equal(t, 1, n, "unique %q placed %d times", name, n)
	}
	assert.Equal(t, len(lib.Uniques), ctx.UsedUniques.Size())
}

func TestShapeInterior(t *testing.T) {
	bounds := world.NewRect(0, 0, 9, 9)
	for _, shape := range randomShapes {
		tiles := shapeInterior(bounds, shape)
		require.NotEmpty(t, tiles, shape.String())
		center := false
		for _, p := range tiles {
			if !bounds.Inner().Contains(p) {
				t.Errorf("%s: tile %v outside inner rect", shape, p)
			}
			if p == bounds.Center() {
				center = true
			}
		}
		assert.True(t, center, "%s interior must include the centre", shape)
	}
	assert.Len(t, shapeInterior(bounds, Rectangle), 49)
	assert.Less(t, len(shapeInterior(bounds, Circle)), 49)
	assert.Less(t, len(shapeInterior(bounds, Cross)), 49)
}
