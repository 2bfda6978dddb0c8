package world

import (
	"github.com/leonelquinteros/gotext"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/entities"
	"dungeonforge/pkg/game/generator"
)

// distributeKeys places a key for every lock colour registered on a floor.
// Floors are visited in tree order; a colour whose key already sits on a
// floor before the lock is skipped. The key goes to a random floor strictly
// before the lock floor, preferring branch floors by Keys.BranchChance, and
// always lands where it can be reached from that floor's upstairs without
// opening a locked door.
func (b *builder) distributeKeys() {
	placed := make(map[string]*Floor)
	floors := b.world.Floors()

	for _, lockFloor := range floors {
		for _, color := range lockFloor.LockColors {
			if at, ok := placed[color]; ok && IsBefore(at, lockFloor) {
				continue
			}

			var all, branch []*Floor
			for _, f := range floors {
				if !IsBefore(f, lockFloor) {
					continue
				}
				all = append(all, f)
				if !f.IsTrunk() {
					branch = append(branch, f)
				}
			}
			if len(all) == 0 {
				b.log.Warn("no floor can hold key",
					zap.String("color", color), zap.String("lock_floor", lockFloor.Label()))
				b.world.UnsolvedLocks = append(b.world.UnsolvedLocks, UnsolvedLock{Color: color, Floor: lockFloor})
				continue
			}

			pool := all
			if len(branch) > 0 && b.rng.Chance(b.cfg.Keys.BranchChance) {
				pool = branch
			}
			target, _ := rng.Choice(b.rng, pool)

			loc, ok := b.placeKey(target, color)
			if !ok {
				b.log.Warn("no free tile for key",
					zap.String("color", color), zap.String("floor", target.Label()))
				b.world.UnsolvedLocks = append(b.world.UnsolvedLocks, UnsolvedLock{Color: color, Floor: lockFloor})
				continue
			}
			placed[color] = target
			b.world.Keys = append(b.world.Keys, loc)
			b.log.Debug("placed key",
				zap.String("color", color),
				zap.String("lock_floor", lockFloor.Label()),
				zap.String("key_floor", target.Label()),
				zap.String("where", loc.Description),
			)
		}
	}
}

// placeKey hands the key to a monster or a container, or drops it on a free
// floor tile. Only entities and tiles in the key-free region qualify.
func (b *builder) placeKey(f *Floor, color string) (KeyLocation, bool) {
	open := generator.ReachableUnlocked(f.Grid, f.Upstairs)
	loc := KeyLocation{Color: color, Floor: f}

	carrier := b.pickCarrier(f, open)
	if carrier != nil {
		key := b.spawner.Build(entities.KeyPrototype(color))
		carrier.Give(key)
		loc.Key, loc.Carrier, loc.Pos = key, carrier, carrier.Pos
		if carrier.Category == entities.Monster {
			loc.Description = gotext.Get("carried by the %s on %s", carrier.Kind, f.Label())
		} else {
			loc.Description = gotext.Get("inside the %s on %s", carrier.Kind, f.Label())
		}
		return loc, true
	}

	at, ok := b.freeKeyTile(f, open)
	if !ok {
		return KeyLocation{}, false
	}
	loc.Key = b.spawner.Spawn(f, entities.KeyPrototype(color), at)
	loc.Pos = at
	if _, info, inRoom := f.RoomAt(at); inRoom {
		loc.Description = gotext.Get("on the floor of the %s on %s", info.Name, f.Label())
	} else {
		loc.Description = gotext.Get("on the floor of %s", f.Label())
	}
	return loc, true
}

func (b *builder) pickCarrier(f *Floor, open mapset.Set[world.Point]) *entities.Entity {
	reachable := func(c entities.Category) []*entities.Entity {
		var out []*entities.Entity
		for _, e := range f.EntitiesOf(c) {
			if open.Has(e.Pos) {
				out = append(out, e)
			}
		}
		return out
	}
	if b.rng.Chance(b.cfg.Keys.MonsterChance) {
		if m, ok := rng.Choice(b.rng, reachable(entities.Monster)); ok {
			return m
		}
	}
	if b.rng.Chance(b.cfg.Keys.ContainerChance) {
		if c, ok := rng.Choice(b.rng, reachable(entities.Container)); ok {
			return c
		}
	}
	return nil
}

// freeKeyTile prefers room tiles, falling back to any open floor tile
func (b *builder) freeKeyTile(f *Floor, open mapset.Set[world.Point]) (world.Point, bool) {
	free := func(p world.Point) bool {
		return open.Has(p) && f.Grid.Kind(p) == world.Floor && f.EntityAt(p) == nil
	}
	var rooms [][]world.Point
	for _, c := range f.RoomOrder {
		var tiles []world.Point
		for _, p := range f.RoomTiles[c] {
			if free(p) {
				tiles = append(tiles, p)
			}
		}
		if len(tiles) > 0 {
			rooms = append(rooms, tiles)
		}
	}
	if tiles, ok := rng.Choice(b.rng, rooms); ok {
		return rng.Choice(b.rng, tiles)
	}
	var rest []world.Point
	for _, p := range f.Grid.Points(world.Floor) {
		if free(p) {
			rest = append(rest, p)
		}
	}
	return rng.Choice(b.rng, rest)
}
