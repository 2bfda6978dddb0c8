package world

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"

	"dungeonforge/pkg/engine/rng"
	"dungeonforge/pkg/engine/world"
	"dungeonforge/pkg/game/entities"
	"dungeonforge/pkg/game/generator"
	"dungeonforge/pkg/game/spawn"
)

// Options are the collaborators of a generation run. Zero values fall back
// to the stock templates, spawn tables, hooks and a seeded spawner.
type Options struct {
	Seed      int64
	Logger    *zap.Logger
	Templates *generator.TemplateLibrary
	Tables    *spawn.Tables
	Spawner   SpawnBuilder
	Hooks     map[string]FeatureHook
}

// SpawnBuilder creates placed and carried entities
type SpawnBuilder interface {
	entities.Spawner
	entities.Builder
}

type builder struct {
	cfg       Config
	ctx       *generator.Context
	rng       *rng.RNG
	log       *zap.Logger
	templates *generator.TemplateLibrary
	rooms     *generator.RoomsGenerator
	spawner   SpawnBuilder
	populator *spawn.Populator
	hooks     map[string]FeatureHook
	world     *World
}

// Generate builds a complete world from cfg. The same seed and configuration
// always produce the same world.
//
// Precondition: cfg passes Validate.
// Postcondition: every trunk floor but the last has a downstairs to the next,
// every floor but the first trunk floor has an upstairs target, and every
// registered lock colour has a key on an earlier floor or is listed in
// UnsolvedLocks.
func Generate(cfg Config, opts Options) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := newBuilder(cfg, opts)
	if err != nil {
		return nil, err
	}
	if err := b.buildTrunk(); err != nil {
		return nil, err
	}
	if err := b.buildBranches(); err != nil {
		return nil, err
	}
	if err := b.applyHooks(); err != nil {
		return nil, err
	}
	b.populate()
	b.distributeKeys()
	if err := CheckSolvable(b.world); err != nil {
		b.log.Warn("world may not be solvable", zap.Error(err))
	}

	b.log.Info("generated world",
		zap.Int64("seed", opts.Seed),
		zap.Int("trunk_floors", len(b.world.Trunk)),
		zap.Int("branches", len(b.world.Branches)),
		zap.Int("keys", len(b.world.Keys)),
		zap.Int("unsolved_locks", len(b.world.UnsolvedLocks)),
	)
	return b.world, nil
}

func newBuilder(cfg Config, opts Options) (*builder, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	templates := opts.Templates
	if templates == nil {
		templates = generator.DefaultTemplates()
	}
	if err := templates.Validate(); err != nil {
		return nil, err
	}
	for _, fixed := range cfg.Selection.FixedFloors {
		if _, ok := templates.Floor(fixed.Template); !ok {
			return nil, fmt.Errorf("fixed floor %d: unknown floor template %q", fixed.Floor, fixed.Template)
		}
	}
	tables := spawn.DefaultTables()
	if opts.Tables != nil {
		tables = *opts.Tables
	}
	if err := tables.Validate(); err != nil {
		return nil, err
	}

	g := rng.New(opts.Seed)
	spawner := opts.Spawner
	if spawner == nil {
		spawner = entities.NewSpawner(g)
	}
	hooks := opts.Hooks
	if hooks == nil {
		hooks = DefaultHooks()
	}

	ctx := generator.NewContext(g, logger)
	ctx.ResetUniques()

	b := &builder{
		cfg:       cfg,
		ctx:       ctx,
		rng:       g,
		log:       logger,
		templates: templates,
		rooms: &generator.RoomsGenerator{
			Planner:   cfg.Planner,
			Graph:     cfg.Graph,
			Features:  cfg.Features,
			Templates: templates,
		},
		spawner:   spawner,
		populator: spawn.NewPopulator(tables, spawner, logger),
		hooks:     hooks,
	}
	b.world = newWorld(b.newID(), opts.Seed)
	return b, nil
}

func (b *builder) newID() uuid.UUID {
	id, err := uuid.NewRandomFromReader(b.rng)
	if err != nil {
		return uuid.New()
	}
	return id
}

// generateFloor runs gen until it yields a floor or the attempt budget is
// spent. Only reachability failures, including a repair that ran off the
// grid, are retried.
func (b *builder) generateFloor(gen generator.FloorGenerator, label string, req generator.Request) (*generator.Layout, error) {
	b.ctx.FloorLabel = label
	var lastErr error
	for attempt := 1; attempt <= b.cfg.MaxFloorAttempts; attempt++ {
		layout, err := gen.Generate(b.ctx, req)
		if err == nil {
			if attempt > 1 {
				b.ctx.Log().Debug("floor generated after retries", zap.Int("attempts", attempt))
			}
			return layout, nil
		}
		if !retryable(err) {
			return nil, fmt.Errorf("floor %s: %w", label, err)
		}
		lastErr = err
		b.ctx.Log().Debug("floor attempt failed", zap.Int("attempt", attempt), zap.Error(err))
	}
	return nil, fmt.Errorf("%w: floor %s after %d attempts: %v", ErrGenerationFailed, label, b.cfg.MaxFloorAttempts, lastErr)
}

func retryable(err error) bool {
	return errors.Is(err, generator.ErrUnreachable) || errors.Is(err, generator.ErrOutOfBounds)
}

// buildTrunk generates the main descent, each floor arriving where the
// previous one left, and links the stairs both ways.
func (b *builder) buildTrunk() error {
	var entry *world.Point
	for n := 1; n <= b.cfg.Floors; n++ {
		kind := SelectGenerator(n, b.cfg.Selection, b.rng.Float64())
		gen, err := b.generatorFor(kind)
		if err != nil {
			return err
		}
		exits := 1
		if n == b.cfg.Floors {
			exits = 0
		}
		req := generator.Request{Depth: n, Width: b.cfg.Width, Height: b.cfg.Height, Entry: entry, Exits: exits}
		layout, err := b.generateFloor(gen, fmt.Sprintf("F%d", n), req)
		if err != nil {
			return err
		}

		floor := newFloor(b.newID(), n, n, 0, layout)
		if prev := b.lastTrunk(); prev != nil {
			link(prev, prev.Downstairs[0], floor)
		}
		b.world.Trunk = append(b.world.Trunk, floor)

		entry = nil
		if len(floor.Downstairs) > 0 {
			exit := floor.Downstairs[0]
			entry = &exit
		}
		b.log.Debug("trunk floor ready",
			zap.String("floor", floor.Label()),
			zap.String("generator", floor.Generator),
			zap.Strings("locks", floor.LockColors),
		)
	}
	return nil
}

func (b *builder) lastTrunk() *Floor {
	if len(b.world.Trunk) == 0 {
		return nil
	}
	return b.world.Trunk[len(b.world.Trunk)-1]
}

// buildBranches picks entry floors among the configured candidates and hangs
// a chain of floors off each. Candidates that are the last trunk floor,
// fixed floors, or out of range are ignored.
func (b *builder) buildBranches() error {
	bc := b.cfg.Branch
	if bc.Count == 0 || bc.Length == 0 {
		return nil
	}

	seen := mapset.New[int]()
	var candidates []int
	for _, n := range bc.Candidates {
		if n < 1 || n >= len(b.world.Trunk) || seen.Has(n) {
			continue
		}
		seen.Put(n)
		if isFixed(b.world.Trunk[n-1]) {
			continue
		}
		candidates = append(candidates, n)
	}
	rng.Shuffle(b.rng, candidates)
	if len(candidates) > bc.Count {
		candidates = candidates[:bc.Count]
	}
	sort.Ints(candidates)

	id := 0
	for _, n := range candidates {
		entryFloor := b.world.Trunk[n-1]
		b.ctx.FloorLabel = entryFloor.Label()
		exit, err := entryFloor.layout.AddExit(b.ctx)
		if err != nil {
			b.log.Warn("skipping branch, no room for an extra exit",
				zap.String("floor", entryFloor.Label()), zap.Error(err))
			continue
		}
		entryFloor.Downstairs = append(entryFloor.Downstairs, exit)

		id++
		floors, err := b.buildBranch(id, entryFloor, exit)
		if err != nil {
			return err
		}
		b.world.Branches[id] = floors
		b.world.BranchEntries[n] = id
		b.log.Debug("branch ready",
			zap.Int("branch", id),
			zap.String("entry", entryFloor.Label()),
			zap.Int("floors", len(floors)),
		)
	}
	return nil
}

func (b *builder) buildBranch(id int, entryFloor *Floor, exit world.Point) ([]*Floor, error) {
	var floors []*Floor
	prev, prevExit := entryFloor, exit
	for d := 1; d <= b.cfg.Branch.Length; d++ {
		exits := 1
		if d == b.cfg.Branch.Length {
			exits = 0
		}
		depth := entryFloor.Depth + d
		entry := prevExit
		req := generator.Request{Depth: depth, Width: b.cfg.Width, Height: b.cfg.Height, Entry: &entry, Exits: exits}
		label := fmt.Sprintf("B%d-%d", id, d)
		layout, err := b.generateFloor(b.rooms, label, req)
		if err != nil {
			return nil, err
		}

		floor := newFloor(b.newID(), d, depth, id, layout)
		floor.BranchDepth = d
		floor.EntryFloor = entryFloor
		link(prev, prevExit, floor)
		floors = append(floors, floor)

		if len(floor.Downstairs) > 0 {
			prev, prevExit = floor, floor.Downstairs[0]
		}
	}
	return floors, nil
}

// link connects a downstairs tile of from to the upstairs of to
func link(from *Floor, exit world.Point, to *Floor) {
	from.DownstairsExits[exit] = to
	to.UpstairsTarget = from
}

func isFixed(f *Floor) bool {
	return strings.HasPrefix(f.Generator, "fixed:")
}

// populate fills every floor from the spawn tables. Stairs stay clear.
func (b *builder) populate() {
	for _, f := range b.world.Floors() {
		occupied := mapset.New[world.Point]()
		for _, p := range f.stairs() {
			occupied.Put(p)
		}
		for _, e := range f.Entities {
			occupied.Put(e.Pos)
		}
		areas := make([]spawn.Area, 0, len(f.RoomOrder))
		for _, c := range f.RoomOrder {
			areas = append(areas, spawn.Area{Center: c, Tiles: f.RoomTiles[c]})
		}
		b.populator.Populate(f, f.Grid, areas, f.Depth, b.rng, occupied)
	}
}
