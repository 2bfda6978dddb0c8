package spawn

import (
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/entities"
)

// Area is a region that receives spawns: a room, or a cavern sector
type Area struct {
	Center world.Point
	Tiles  []world.Point
}

// Populator fills floors from the spawn tables
type Populator struct {
	Tables  Tables
	Spawner entities.Spawner
	Logger  *zap.Logger
}

// NewPopulator creates a populator. A nil logger is replaced with a no-op logger.
func NewPopulator(tables Tables, spawner entities.Spawner, logger *zap.Logger) *Populator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Populator{Tables: tables, Spawner: spawner, Logger: logger}
}

// Populate spawns monsters, items and containers into each area. Entities are
// only placed on plain floor tiles that are not in occupied; every tile used is
// added to occupied. Per-floor MaxInstances limits are counted across all areas.
func (p *Populator) Populate(host entities.Host, grid *world.Grid, areas []Area, depth int, g *rng.RNG, occupied mapset.Set[world.Point]) []*entities.Entity {
	counts := make(map[string]int)
	var spawned []*entities.Entity

	for _, area := range areas {
		for _, table := range []Table{p.Tables.Monsters, p.Tables.Items, p.Tables.Containers} {
			limit := table.MaxPerRoomAt(depth)
			if limit <= 0 {
				continue
			}
			n := g.UniformInt(0, limit)
			for i := 0; i < n; i++ {
				entry, ok := table.Pick(g, depth, counts)
				if !ok {
					break
				}
				at, ok := freeTile(grid, area.Tiles, g, occupied)
				if !ok {
					break
				}
				e := p.Spawner.Spawn(host, entry.Prototype(), at)
				occupied.Put(at)
				counts[entry.Kind]++
				spawned = append(spawned, e)
			}
		}
	}

	p.Logger.Debug("populated floor",
		zap.String("floor", host.Label()),
		zap.Int("depth", depth),
		zap.Int("areas", len(areas)),
		zap.Int("entities", len(spawned)),
	)
	return spawned
}

func freeTile(grid *world.Grid, tiles []world.Point, g *rng.RNG, occupied mapset.Set[world.Point]) (world.Point, bool) {
	var free []world.Point
	for _, t := range tiles {
		if grid.Kind(t) == world.Floor && !occupied.Has(t) {
			free = append(free, t)
		}
	}
	return rng.Choice(g, free)
}
