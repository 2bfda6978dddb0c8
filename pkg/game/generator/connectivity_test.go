package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"

	"dungeonforge/pkg/engine/world"
)

// corridor returns a 9x3 grid with a floor row split at x=4 by the given kind
func corridor(split world.TileKind) *world.Grid {
	grid := world.NewGrid(9, 3)
	for x := 1; x < 8; x++ {
		grid.SetKind(world.Pt(x, 1), world.Floor)
	}
	grid.SetKind(world.Pt(4, 1), split)
	return grid
}

func TestReachable_ThroughDoorsAndBreakables(t *testing.T) {
	for _, kind := range []world.TileKind{world.ClosedDoor, world.LockedDoor, world.OpenDoor, world.BreakableWall} {
		grid := corridor(kind)
		if !PathExists(grid, world.Pt(1, 1), world.Pt(7, 1)) {
			t.Errorf("PathExists across %s = false, want true", kind)
		}
	}
	assert.False(t, PathExists(corridor(world.Wall), world.Pt(1, 1), world.Pt(7, 1)))
}

func TestReachableUnlocked_StopsAtLockedDoors(t *testing.T) {
	assert.False(t, ReachableUnlocked(corridor(world.LockedDoor), world.Pt(1, 1)).Has(world.Pt(7, 1)))
	assert.True(t, ReachableUnlocked(corridor(world.ClosedDoor), world.Pt(1, 1)).Has(world.Pt(7, 1)))
}

func TestValidate_RepairsDisconnectedGoal(t *testing.T) {
	grid := corridor(world.Wall)

	repaired, err := Validate(grid, world.Pt(1, 1), []world.Point{world.Pt(7, 1)})

	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.Equal(t, world.Floor, grid.Kind(world.Pt(4, 1)))
}

func TestValidate_ReadOnlyWhenConnected(t *testing.T) {
	grid := corridor(world.LockedDoor)
	before := grid.Clone()

	for i := 0; i < 3; i++ {
		repaired, err := Validate(grid, world.Pt(1, 1), []world.Point{world.Pt(7, 1)})
		require.NoError(t, err)
		assert.Zero(t, repaired)
	}
	assert.Equal(t, before, grid)
}

func TestForceConnect_OutOfBounds(t *testing.T) {
	grid := world.NewGrid(5, 5)
	err := ForceConnect(grid, world.Pt(1, 1), world.Pt(9, 9))
	assert.True(t, errors.Is(err, ErrOutOfBounds))

	_, err = Validate(grid, world.Pt(1, 1), []world.Point{world.Pt(-1, 2)})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestFarthest(t *testing.T) {
	grid := corridor(world.ClosedDoor)
	p, ok := Farthest(grid, world.Pt(1, 1), world.Floor, mapset.New[world.Point]())
	require.True(t, ok)
	assert.Equal(t, world.Pt(7, 1), p)
}

func TestSealUnreachable(t *testing.T) {
	grid := corridor(world.Wall)
	sealed := SealUnreachable(grid, world.Pt(1, 1))
	assert.Equal(t, 3, sealed)
	assert.Equal(t, world.Wall, grid.Kind(world.Pt(6, 1)))
	assert.Equal(t, world.Floor, grid.Kind(world.Pt(2, 1)))
}
