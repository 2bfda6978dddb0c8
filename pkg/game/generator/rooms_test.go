package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

func defaultRooms() *RoomsGenerator {
	return &RoomsGenerator{
		Planner:   DefaultPlannerConfig(),
		Graph:     DefaultGraphConfig(),
		Features:  DefaultFeatureConfig(),
		Templates: DefaultTemplates(),
	}
}

func TestRoomsGenerate_Scenario(t *testing.T) {
	gen := defaultRooms()
	gen.Planner.TargetRooms = 10
	gen.Planner.MaxAttempts = 200
	ctx := NewContext(rng.New(1), zaptest.NewLogger(t))

	layout, err := gen.Generate(ctx, Request{Depth: 1, Width: 80, Height: 36, Exits: 1})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, layout.Rooms(), 1)
	for _, center := range layout.RoomOrder {
		info := layout.RoomInfo[center]
		template := info.Shape == FixedTemplate || info.Shape == UniqueTemplate
		for _, p := range layout.RoomTiles[center] {
			kind := layout.Grid.Kind(p)
			if kind.Walkable() {
				continue
			}
			// Template entries may be stamped as doors
			if template && kind.IsDoor() {
				continue
			}
			t.Errorf("%s room %v tile %v is %s", info.Shape, center, p, kind)
		}
		assert.NotEmpty(t, info.Name)
	}
	require.Len(t, layout.Downstairs, 1)
	assert.True(t, PathExists(layout.Grid, layout.Upstairs, layout.Downstairs[0]))
	assert.Equal(t, world.UpStairs, layout.Grid.Kind(layout.Upstairs))
	assert.Equal(t, world.DownStairs, layout.Grid.Kind(layout.Downstairs[0]))
}

func TestRoomsGenerate_EveryWalkableTileReachable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gen := defaultRooms()
		gen.Planner.FixedChance = 0.2
		gen.Planner.UniqueChance = 0.2
		exits := rapid.IntRange(0, 3).Draw(t, "exits")
		ctx := NewContext(rng.New(rapid.Int64().Draw(t, "seed")), nil)
		req := Request{Depth: rapid.IntRange(1, 10).Draw(t, "depth"), Width: 60, Height: 30, Exits: exits}

		layout, err := gen.Generate(ctx, req)
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		reach := Reachable(layout.Grid, layout.Upstairs)
		for _, p := range layout.Exits() {
			if !reach.Has(p) {
				t.Fatalf("exit %v unreachable from %v", p, layout.Upstairs)
			}
		}
		layout.Grid.ForEach(func(p world.Point, tile world.Tile) {
			if tile.Walkable() && !reach.Has(p) {
				t.Fatalf("walkable tile %v unreachable", p)
			}
		})

		// Validation of an already valid floor changes nothing
		before := layout.Grid.Clone()
		if err := layout.Validate(); err != nil {
			t.Fatalf("re-validate: %v", err)
		}
		if !assert.ObjectsAreEqual(before, layout.Grid) {
			t.Fatalf("re-validation mutated the grid")
		}
	})
}

func TestRoomsGenerate_ThreadsEntry(t *testing.T) {
	entry := world.Pt(5, 5)
	ctx := NewContext(rng.New(4), zaptest.NewLogger(t))

	layout, err := defaultRooms().Generate(ctx, Request{Depth: 2, Width: 60, Height: 30, Entry: &entry, Exits: 1})

	require.NoError(t, err)
	assert.Equal(t, entry, layout.Upstairs)
	assert.True(t, PathExists(layout.Grid, entry, layout.Downstairs[0]))
}

func TestRoomsGenerate_LocksRespectMinFloor(t *testing.T) {
	gen := defaultRooms()
	gen.Features = FeatureConfig{DoorWeight: 1, LockChance: 1, Locks: []LockRule{{Color: "purple", MinFloor: 5}}}

	for depth := 1; depth <= 6; depth++ {
		ctx := NewContext(rng.New(int64(depth)), zaptest.NewLogger(t))
		layout, err := gen.Generate(ctx, Request{Depth: depth, Width: 80, Height: 36, Exits: 1})
		require.NoError(t, err)

		locked := layout.Grid.Points(world.LockedDoor)
		if depth < 5 {
			assert.Empty(t, locked, "depth %d", depth)
			assert.Empty(t, layout.LockColors, "depth %d", depth)
			continue
		}
		for _, p := range locked {
			assert.Equal(t, "purple", layout.Grid.At(p).LockColor)
		}
		if len(locked) > 0 {
			assert.Equal(t, []string{"purple"}, layout.LockColors)
		}
	}
}

func TestRoomsGenerate_ReleasesUniqueOnFailure(t *testing.T) {
	gen := defaultRooms()
	gen.Planner.TargetRooms = 1
	gen.Planner.UniqueChance = 1
	gen.Templates = &TemplateLibrary{Uniques: []Template{DefaultTemplates().Uniques[1]}}
	ctx := NewContext(rng.New(2), zaptest.NewLogger(t))

	_, err := gen.Generate(ctx, Request{Depth: 1, Width: 10, Height: 10, Exits: 500})
	require.True(t, errors.Is(err, ErrUnreachable), "err = %v", err)
	assert.False(t, ctx.UniqueUsed("prison cell"))

	layout, err := gen.Generate(ctx, Request{Depth: 1, Width: 10, Height: 10, Exits: 1})
	require.NoError(t, err)
	assert.True(t, ctx.UniqueUsed("prison cell"))
	require.Len(t, layout.Features, 1)
	assert.Equal(t, FeatureCaptive, layout.Features[0].Name)
}

func TestRoomsGenerate_RejectsTinyFloor(t *testing.T) {
	_, err := defaultRooms().Generate(NewContext(rng.New(1), nil), Request{Width: 4, Height: 20})
	assert.Error(t, err)
}

func TestLayout_AddExit(t *testing.T) {
	ctx := NewContext(rng.New(8), zaptest.NewLogger(t))
	layout, err := defaultRooms().Generate(ctx, Request{Depth: 3, Width: 80, Height: 36, Exits: 1})
	require.NoError(t, err)

	p, err := layout.AddExit(ctx)
	require.NoError(t, err)

	assert.Len(t, layout.Downstairs, 2)
	assert.Equal(t, world.DownStairs, layout.Grid.Kind(p))
	assert.NotEqual(t, layout.Downstairs[0], p)
	assert.True(t, PathExists(layout.Grid, layout.Upstairs, p))
}

func TestLayout_AddExit_Cavern(t *testing.T) {
	gen := &CavernGenerator{Config: DefaultCavernConfig()}
	built := 0
	for seed := int64(0); seed < 10; seed++ {
		ctx := NewContext(rng.New(seed), zaptest.NewLogger(t))
		layout, err := gen.Generate(ctx, Request{Depth: 4, Width: 60, Height: 30, Exits: 1})
		if errors.Is(err, ErrUnreachable) {
			continue
		}
		require.NoError(t, err)
		require.True(t, layout.Open)
		built++

		p, err := layout.AddExit(ctx)
		require.NoError(t, err)
		require.Len(t, layout.Downstairs, 2)
		assert.Equal(t, p, layout.Downstairs[1])
		assert.Equal(t, world.DownStairs, layout.Grid.Kind(p))
		assert.NotEqual(t, layout.Upstairs, p)
		assert.True(t, PathExists(layout.Grid, layout.Upstairs, p), "seed %d: exit %v unreachable", seed, p)
	}
	assert.NotZero(t, built)
}

func TestLayout_AddExit_RestoresGridOnFailure(t *testing.T) {
	grid := world.NewGrid(7, 3)
	grid.SetKind(world.Pt(1, 1), world.Floor)
	grid.SetKind(world.Pt(4, 1), world.Floor)
	layout := newLayout("test", grid)
	layout.Open = true
	layout.Upstairs = world.Pt(-1, -1) // no repair can reach from off the grid
	before := grid.Clone()

	_, err := layout.AddExit(NewContext(rng.New(1), zaptest.NewLogger(t)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds), "err = %v", err)

	assert.Empty(t, layout.Downstairs)
	grid.ForEach(func(p world.Point, tile world.Tile) {
		if tile != before.At(p) {
			t.Errorf("tile %v = %s after failed AddExit, want %s", p, tile.Kind, before.Kind(p))
		}
	})
}

func TestCavernGenerate(t *testing.T) {
	gen := &CavernGenerator{Config: DefaultCavernConfig()}
	for seed := int64(0); seed < 10; seed++ {
		ctx := NewContext(rng.New(seed), zaptest.NewLogger(t))
		layout, err := gen.Generate(ctx, Request{Depth: 2, Width: 60, Height: 30, Exits: 2})
		if errors.Is(err, ErrUnreachable) {
			continue // a retry is the caller's job
		}
		require.NoError(t, err)
		assert.True(t, layout.Open)
		require.Len(t, layout.Downstairs, 2)
		for _, p := range layout.Downstairs {
			assert.True(t, PathExists(layout.Grid, layout.Upstairs, p))
		}
		assert.NotZero(t, layout.Rooms())
	}
}

func TestFixedGenerate(t *testing.T) {
	tmpl, ok := DefaultTemplates().Floor("gatehouse")
	require.True(t, ok)
	gen := &FixedGenerator{Template: tmpl}
	ctx := NewContext(rng.New(1), zaptest.NewLogger(t))

	layout, err := gen.Generate(ctx, Request{Depth: 3, Width: 40, Height: 20, Exits: 1})
	require.NoError(t, err)

	assert.Equal(t, "fixed:gatehouse", layout.Generator)
	assert.Equal(t, world.UpStairs, layout.Grid.Kind(layout.Upstairs))
	require.Len(t, layout.Downstairs, 1)
	assert.True(t, PathExists(layout.Grid, layout.Upstairs, layout.Downstairs[0]))
	assert.Equal(t, 1, layout.Rooms())

	_, err = gen.Generate(ctx, Request{Depth: 3, Width: 40, Height: 20, Exits: 2})
	assert.Error(t, err)
}
