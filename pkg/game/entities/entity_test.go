package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
)

type fakeHost struct {
	added []*Entity
}

func (h *fakeHost) Label() string       { return "test" }
func (h *fakeHost) AddEntity(e *Entity) { h.added = append(h.added, e) }

func TestParseCategory(t *testing.T) {
	for c, name := range categoryNames {
		got, err := ParseCategory(name)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCategory("dragonfly")
	assert.Error(t, err)
}

func TestCategory_YAML(t *testing.T) {
	var out struct {
		Category Category `yaml:"category"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("category: container\n"), &out))
	assert.Equal(t, Container, out.Category)
}

func TestSpawn_PlacesAndAdds(t *testing.T) {
	host := &fakeHost{}
	s := NewSpawner(rng.New(1))
	proto := Prototype{Kind: "chest", Category: Container, Contents: []Prototype{KeyPrototype("red")}}

	e := s.Spawn(host, proto, world.Pt(3, 4))

	require.Len(t, host.added, 1)
	assert.Same(t, e, host.added[0])
	assert.Equal(t, world.Pt(3, 4), e.Pos)
	require.Len(t, e.Contents, 1)
	assert.True(t, e.Contents[0].Carried)
	assert.True(t, e.HasKey("red"))
	assert.False(t, e.HasKey("blue"))
}

func TestSpawn_IDsFollowSeed(t *testing.T) {
	a := NewSpawner(rng.New(9)).Build(Prototype{Kind: "goblin"})
	b := NewSpawner(rng.New(9)).Build(Prototype{Kind: "goblin"})
	assert.Equal(t, a.ID, b.ID)
}

func TestEntity_Name(t *testing.T) {
	k := &Entity{Category: Key, Color: "blue"}
	if got := k.Name(); got != "blue key" {
		t.Errorf("Name() = %q, want %q", got, "blue key")
	}
}
