package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestNewGrid_StartsAsWalls(t *testing.T) {
	g := NewGrid(5, 4)
	if g.Width() != 5 || g.Height() != 4 {
		t.Fatalf("size = %dx%d, want 5x4", g.Width(), g.Height())
	}
	if n := g.Count(Wall); n != 20 {
		t.Errorf("Count(Wall) = %d, want 20", n)
	}
	if g.Walkable(Pt(2, 2)) {
		t.Error("Walkable on fresh grid = true, want false")
	}
}

func TestGrid_OutOfBoundsReadsAsWall(t *testing.T) {
	g := NewGrid(3, 3)
	g.Fill(Floor)
	assert.Equal(t, Wall, g.Kind(Pt(-1, 0)))
	assert.Equal(t, Wall, g.Kind(Pt(3, 3)))
	assert.False(t, g.Set(Pt(3, 0), Tile{Kind: Floor}))
}

func TestGrid_PlayableExcludesPerimeter(t *testing.T) {
	g := NewGrid(4, 4)
	assert.False(t, g.IsPlayable(Pt(0, 1)))
	assert.True(t, g.IsOnPerimeter(Pt(3, 2)))
	assert.True(t, g.IsPlayable(Pt(1, 1)))
	assert.True(t, g.IsPlayable(Pt(2, 2)))
}

func TestGrid_MasksFollowTileKinds(t *testing.T) {
	g := NewGrid(3, 1)
	g.SetKind(Pt(0, 0), Floor)
	g.SetKind(Pt(1, 0), ClosedDoor)
	g.SetKind(Pt(2, 0), DownStairs)

	walk := g.WalkableMask()
	assert.Equal(t, []bool{true, false, true}, walk[0])
	assert.True(t, g.Traversable(Pt(1, 0)), "doors count for reachability")
}

func TestGrid_CloneIsDeep(t *testing.T) {
	g := NewGrid(2, 2)
	c := g.Clone()
	c.SetKind(Pt(0, 0), Floor)
	assert.Equal(t, Wall, g.Kind(Pt(0, 0)))
}

func TestTileKind_Traversable(t *testing.T) {
	cases := map[TileKind]bool{
		Wall:          false,
		Floor:         true,
		BreakableWall: true,
		ClosedDoor:    true,
		OpenDoor:      true,
		LockedDoor:    true,
		UpStairs:      true,
		DownStairs:    true,
	}
	for kind, want := range cases {
		if got := kind.Traversable(); got != want {
			t.Errorf("%s.Traversable() = %v, want %v", kind, got, want)
		}
	}
}

func TestRect_Intersects(t *testing.T) {
	a := NewRect(0, 0, 4, 4)
	assert.True(t, a.Intersects(NewRect(3, 3, 2, 2)))
	assert.False(t, a.Intersects(NewRect(4, 0, 2, 2)), "edges are exclusive")
	assert.True(t, a.Pad(1).Intersects(NewRect(4, 0, 2, 2)))
}

func TestRect_IntersectsIsSymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := NewRect(rapid.IntRange(-10, 10).Draw(t, "ax"), rapid.IntRange(-10, 10).Draw(t, "ay"),
			rapid.IntRange(1, 8).Draw(t, "aw"), rapid.IntRange(1, 8).Draw(t, "ah"))
		b := NewRect(rapid.IntRange(-10, 10).Draw(t, "bx"), rapid.IntRange(-10, 10).Draw(t, "by"),
			rapid.IntRange(1, 8).Draw(t, "bw"), rapid.IntRange(1, 8).Draw(t, "bh"))
		if a.Intersects(b) != b.Intersects(a) {
			t.Fatalf("Intersects not symmetric for %v and %v", a, b)
		}
		shared := false
		for _, p := range a.Points() {
			if b.Contains(p) {
				shared = true
				break
			}
		}
		if shared != a.Intersects(b) {
			t.Fatalf("Intersects(%v, %v) = %v, shared tile = %v", a, b, a.Intersects(b), shared)
		}
	})
}

func TestLine_EndpointsAndContinuity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := Pt(rapid.IntRange(-20, 20).Draw(t, "ax"), rapid.IntRange(-20, 20).Draw(t, "ay"))
		b := Pt(rapid.IntRange(-20, 20).Draw(t, "bx"), rapid.IntRange(-20, 20).Draw(t, "by"))
		line := Line(a, b)
		if line[0] != a || line[len(line)-1] != b {
			t.Fatalf("Line(%v, %v) ends = %v..%v", a, b, line[0], line[len(line)-1])
		}
		for i := 1; i < len(line); i++ {
			if Chebyshev(line[i-1], line[i]) != 1 {
				t.Fatalf("Line(%v, %v) jumps between %v and %v", a, b, line[i-1], line[i])
			}
		}
	})
}

func TestDirection_Opposite(t *testing.T) {
	for _, d := range AllDirections() {
		if d.Opposite().Opposite() != d {
			t.Errorf("%s.Opposite().Opposite() = %s", d, d.Opposite().Opposite())
		}
		p := d.Opposite().Step(d.Step(Pt(5, 5)))
		if p != Pt(5, 5) {
			t.Errorf("step %s then back = %v, want 5,5", d, p)
		}
	}
}
