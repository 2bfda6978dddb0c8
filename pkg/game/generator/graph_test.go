package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

func TestUnionFind_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "n")
		uf := NewUnionFind(n)
		naive := make([]int, n)
		for i := range naive {
			naive[i] = i
		}
		ops := rapid.SliceOf(rapid.Custom(func(t *rapid.T) [2]int {
			return [2]int{rapid.IntRange(0, n-1).Draw(t, "a"), rapid.IntRange(0, n-1).Draw(t, "b")}
		})).Draw(t, "ops")

		for _, op := range ops {
			a, b := op[0], op[1]
			wasJoined := naive[a] == naive[b]
			if uf.Union(a, b) == wasJoined {
				t.Fatalf("Union(%d, %d) disagrees with naive partition", a, b)
			}
			if !wasJoined {
				from, to := naive[b], naive[a]
				for i := range naive {
					if naive[i] == from {
						naive[i] = to
					}
				}
			}
		}

		sets := map[int]bool{}
		for i := 0; i < n; i++ {
			sets[naive[i]] = true
			for j := 0; j < n; j++ {
				if uf.Connected(i, j) != (naive[i] == naive[j]) {
					t.Fatalf("Connected(%d, %d) = %v", i, j, uf.Connected(i, j))
				}
			}
		}
		if uf.Sets() != len(sets) {
			t.Fatalf("Sets() = %d, want %d", uf.Sets(), len(sets))
		}
	})
}

func TestConnect_SpanningTree(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		points := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) world.Point {
			return world.Pt(rapid.IntRange(0, 80).Draw(t, "x"), rapid.IntRange(0, 40).Draw(t, "y"))
		}), 1, 15).Draw(t, "points")
		cfg := GraphConfig{ExtraAttempts: rapid.IntRange(0, 5).Draw(t, "extra"), ExtraChance: 0.5}

		edges := Connect(points, cfg, rng.New(rapid.Int64().Draw(t, "seed")))

		uf := NewUnionFind(len(points))
		tree := 0
		for _, e := range edges {
			if e.Tree {
				tree++
				uf.Union(e.A, e.B)
			}
			if e.Cost != world.Manhattan(points[e.A], points[e.B]) {
				t.Fatalf("edge %v cost mismatch", e)
			}
		}
		if tree != len(points)-1 {
			t.Fatalf("tree edges = %d, want %d", tree, len(points)-1)
		}
		if uf.Sets() != 1 {
			t.Fatalf("tree leaves %d components", uf.Sets())
		}
		if len(edges) > len(points)-1+cfg.ExtraAttempts {
			t.Fatalf("too many edges: %d", len(edges))
		}
	})
}

func TestConnect_PrefersShortEdges(t *testing.T) {
	points := []world.Point{world.Pt(0, 0), world.Pt(10, 0), world.Pt(1, 0)}
	edges := Connect(points, GraphConfig{}, rng.New(1))

	assert.Len(t, edges, 2)
	assert.Equal(t, Edge{A: 0, B: 2, Cost: 1, Tree: true}, edges[0])
	assert.Equal(t, Edge{A: 1, B: 2, Cost: 9, Tree: true}, edges[1])
}

func TestConnect_TooFewPoints(t *testing.T) {
	assert.Nil(t, Connect([]world.Point{world.Pt(1, 1)}, DefaultGraphConfig(), rng.New(1)))
}
