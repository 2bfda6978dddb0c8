package generator

import (
	"sort"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

// UnionFind is a disjoint-set forest with path compression and union by rank
type UnionFind struct {
	parent []int
	rank   []int
	sets   int
}

// NewUnionFind creates n singleton sets
func NewUnionFind(n int) *UnionFind {
	uf := &UnionFind{parent: make([]int, n), rank: make([]int, n), sets: n}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// Find returns the representative of x's set
func (uf *UnionFind) Find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

// Union merges the sets of a and b. Returns false if they were already joined.
func (uf *UnionFind) Union(a, b int) bool {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return false
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		uf.parent[ra] = rb
	case uf.rank[ra] > uf.rank[rb]:
		uf.parent[rb] = ra
	default:
		uf.parent[rb] = ra
		uf.rank[ra]++
	}
	uf.sets--
	return true
}

// Connected reports whether a and b are in the same set
func (uf *UnionFind) Connected(a, b int) bool {
	return uf.Find(a) == uf.Find(b)
}

// Sets returns the number of disjoint sets
func (uf *UnionFind) Sets() int {
	return uf.sets
}

// GraphConfig controls the extra loop edges added after the spanning tree
type GraphConfig struct {
	ExtraAttempts int     `mapstructure:"extra_attempts"`
	ExtraChance   float64 `mapstructure:"extra_chance"`
}

// DefaultGraphConfig returns the stock graph settings
func DefaultGraphConfig() GraphConfig {
	return GraphConfig{ExtraAttempts: 3, ExtraChance: 0.3}
}

// Edge joins two connection points by index
type Edge struct {
	A    int
	B    int
	Cost int
	Tree bool // Part of the spanning tree rather than an extra loop
}

// Connect returns the edges joining points: a minimum spanning tree over
// Manhattan distance, built with Kruskal's algorithm, followed by extra loop
// edges accepted with cfg.ExtraChance on each of cfg.ExtraAttempts draws.
//
// Postcondition: the first len(points)-1 edges form a spanning tree.
func Connect(points []world.Point, cfg GraphConfig, g *rng.RNG) []Edge {
	n := len(points)
	if n < 2 {
		return nil
	}

	candidates := make([]Edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			candidates = append(candidates, Edge{A: i, B: j, Cost: world.Manhattan(points[i], points[j])})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Cost < candidates[j].Cost
	})

	uf := NewUnionFind(n)
	used := make(map[[2]int]bool, n)
	edges := make([]Edge, 0, n-1+cfg.ExtraAttempts)
	for _, e := range candidates {
		if uf.Union(e.A, e.B) {
			e.Tree = true
			edges = append(edges, e)
			used[[2]int{e.A, e.B}] = true
			if len(edges) == n-1 {
				break
			}
		}
	}

	for attempt := 0; attempt < cfg.ExtraAttempts; attempt++ {
		a, b := g.Intn(n), g.Intn(n)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		if used[[2]int{a, b}] || !g.Chance(cfg.ExtraChance) {
			continue
		}
		used[[2]int{a, b}] = true
		edges = append(edges, Edge{A: a, B: b, Cost: world.Manhattan(points[a], points[b])})
	}
	return edges
}
