package world

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/entities"
	"dungeonforge/pkg/game/generator"
)

// HookEnv is what a feature hook may use
type HookEnv struct {
	RNG     *rng.RNG
	Spawner entities.Spawner
	Logger  *zap.Logger
}

// FeatureHook decorates a placed unique room once its floor exists
type FeatureHook func(env HookEnv, f *Floor, feat generator.Feature) error

// DefaultHooks returns the hooks for the stock unique templates
func DefaultHooks() map[string]FeatureHook {
	return map[string]FeatureHook{
		generator.FeatureTreasureVault: treasureVault,
		generator.FeatureCaptive:       captive,
	}
}

// treasureVault fills the vault with a chest and loose loot
func treasureVault(env HookEnv, f *Floor, feat generator.Feature) error {
	chest := entities.Prototype{
		Kind:     "treasure chest",
		Category: entities.Container,
		Contents: []entities.Prototype{
			{Kind: "gold", Category: entities.Item},
			{Kind: "jeweled crown", Category: entities.Item},
		},
	}
	at, ok := anchorTile(env, f, feat)
	if !ok {
		env.Logger.Warn("no free tile for feature", zap.String("template", feat.Template), zap.String("floor", f.Label()))
		return nil
	}
	env.Spawner.Spawn(f, chest, at)

	free := freeFeatureTiles(f, feat, at)
	rng.Shuffle(env.RNG, free)
	for i := 0; i < len(free) && i < 2; i++ {
		env.Spawner.Spawn(f, entities.Prototype{Kind: "gold", Category: entities.Item}, free[i])
	}
	return nil
}

// captive places a prisoner NPC and a jailer guarding the cell
func captive(env HookEnv, f *Floor, feat generator.Feature) error {
	at, ok := anchorTile(env, f, feat)
	if !ok {
		env.Logger.Warn("no free tile for feature", zap.String("template", feat.Template), zap.String("floor", f.Label()))
		return nil
	}
	env.Spawner.Spawn(f, entities.Prototype{Kind: "captive", Category: entities.NPC}, at)
	free := freeFeatureTiles(f, feat, at)
	if at, ok := rng.Choice(env.RNG, free); ok {
		env.Spawner.Spawn(f, entities.Prototype{Kind: "jailer", Category: entities.Monster}, at)
	}
	return nil
}

// anchorTile returns the feature anchor, or a random free tile of the room
// when the anchor holds stairs or an entity.
func anchorTile(env HookEnv, f *Floor, feat generator.Feature) (world.Point, bool) {
	if f.Grid.Kind(feat.Anchor) == world.Floor && f.EntityAt(feat.Anchor) == nil {
		return feat.Anchor, true
	}
	return rng.Choice(env.RNG, freeFeatureTiles(f, feat, feat.Anchor))
}

func freeFeatureTiles(f *Floor, feat generator.Feature, exclude world.Point) []world.Point {
	var out []world.Point
	for _, p := range feat.Tiles {
		if p != exclude && f.Grid.Kind(p) == world.Floor && f.EntityAt(p) == nil {
			out = append(out, p)
		}
	}
	return out
}

// applyHooks runs the hook of every placed unique room. A template's hook
// runs at most once per world.
func (b *builder) applyHooks() error {
	applied := mapset.New[string]()
	env := HookEnv{RNG: b.rng, Spawner: b.spawner, Logger: b.log}
	for _, f := range b.world.Floors() {
		for _, feat := range f.Features {
			if applied.Has(feat.Template) {
				continue
			}
			hook, ok := b.hooks[feat.Name]
			if !ok {
				b.log.Warn("no hook for feature",
					zap.String("feature", feat.Name), zap.String("floor", f.Label()))
				continue
			}
			if err := hook(env, f, feat); err != nil {
				return fmt.Errorf("feature %s on %s: %w", feat.Name, f.Label(), err)
			}
			applied.Put(feat.Template)
			b.log.Debug("applied feature",
				zap.String("feature", feat.Name),
				zap.String("template", feat.Template),
				zap.String("floor", f.Label()),
			)
		}
	}
	return nil
}
