package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectGenerator(t *testing.T) {
	cfg := SelectionConfig{
		CavernChance:   0.25,
		CavernMinFloor: 3,
		FixedFloors:    []FixedFloor{{Floor: 4, Template: "gatehouse"}},
	}
	tests := []struct {
		depth int
		roll  float64
		want  string
	}{
		{1, 0.0, "rooms"},
		{2, 0.1, "rooms"},
		{3, 0.1, "cavern"},
		{3, 0.25, "rooms"},
		{4, 0.0, "fixed:gatehouse"},
		{5, 0.9, "rooms"},
		{9, 0.24, "cavern"},
	}
	for _, tt := range tests {
		got := SelectGenerator(tt.depth, cfg, tt.roll)
		if got.String() != tt.want {
			t.Errorf("SelectGenerator(%d, %.2f) = %s, want %s", tt.depth, tt.roll, got, tt.want)
		}
	}
}

func TestIsBefore(t *testing.T) {
	f1 := &Floor{Number: 1, Depth: 1}
	f2 := &Floor{Number: 2, Depth: 2}
	f3 := &Floor{Number: 3, Depth: 3}
	b1 := &Floor{Number: 1, BranchID: 1, BranchDepth: 1, EntryFloor: f1}
	b2 := &Floor{Number: 2, BranchID: 1, BranchDepth: 2, EntryFloor: f1}
	c1 := &Floor{Number: 1, BranchID: 2, BranchDepth: 1, EntryFloor: f2}

	tests := []struct {
		name string
		a, b *Floor
		want bool
	}{
		{"trunk order", f1, f2, true},
		{"trunk reverse", f2, f1, false},
		{"self", f2, f2, false},
		{"entry before its branch", f1, b1, true},
		{"later trunk after branch", f2, b1, false},
		{"branch before next trunk", b2, f2, true},
		{"branch not before own entry", b1, f1, false},
		{"shallower branch floor first", b1, b2, true},
		{"deeper branch floor later", b2, b1, false},
		{"earlier branch before later branch", b2, c1, true},
		{"later branch after earlier", c1, b1, false},
		{"later branch before following trunk", c1, f3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBefore(tt.a, tt.b))
		})
	}
}

func TestFloorsTreeOrder(t *testing.T) {
	w := newWorld([16]byte{}, 0)
	f1 := &Floor{Number: 1}
	f2 := &Floor{Number: 2}
	b1 := &Floor{Number: 1, BranchID: 1, BranchDepth: 1, EntryFloor: f1}
	w.Trunk = []*Floor{f1, f2}
	w.Branches[1] = []*Floor{b1}
	w.BranchEntries[1] = 1

	assert.Equal(t, []*Floor{f1, b1, f2}, w.Floors())
	got, ok := w.Floor(1, 1)
	require.True(t, ok)
	assert.Same(t, b1, got)
	_, ok = w.Floor(0, 3)
	assert.False(t, ok)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Features.Locks[0].MinFloor = 1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_floor must be >= 2")

	cfg = DefaultConfig()
	cfg.Floors = 0
	cfg.Keys.MonsterChance = 2
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floors must be >= 1")
	assert.Contains(t, err.Error(), "key chances")
}
