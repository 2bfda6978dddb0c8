// Package config provides Viper-based configuration loading for the dungeon generator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dungeonforge/pkg/game/generator"
	"dungeonforge/pkg/game/spawn"
	gameworld "dungeonforge/pkg/game/world"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// File is an optional rotated log file written in addition to stderr.
	File FileConfig `mapstructure:"file"`
}

// FileConfig holds rotated log file settings. An empty Path disables the file.
type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ContentConfig points at the data files that extend the built-in content.
// Empty paths use the built-in templates and spawn tables only.
type ContentConfig struct {
	Templates   string `mapstructure:"templates"`
	SpawnTables string `mapstructure:"spawn_tables"`
	// LocaleDir holds gettext catalogues as <lang>/LC_MESSAGES/default.po
	LocaleDir string `mapstructure:"locale_dir"`
	Language  string `mapstructure:"language"`
}

// Config is the root configuration structure.
type Config struct {
	// Seed drives every random decision; 0 asks the caller to pick one.
	Seed    int64            `mapstructure:"seed"`
	World   gameworld.Config `mapstructure:"world"`
	Logging LoggingConfig    `mapstructure:"logging"`
	Content ContentConfig    `mapstructure:"content"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		World: gameworld.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File: FileConfig{
				MaxSizeMB:  10,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
		},
		Content: ContentConfig{
			Language: "en_GB",
		},
	}
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := c.World.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if l.File.Path != "" && (l.File.MaxSizeMB < 1 || l.File.MaxBackups < 0 || l.File.MaxAgeDays < 0) {
		return fmt.Errorf("logging.file rotation settings invalid: %+v", l.File)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path skips the file and uses
// defaults plus environment overrides.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DUNGEON_ prefix
	v.SetEnvPrefix("DUNGEON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadContent loads the template library and spawn tables named by the
// content settings, falling back to the built-in content for empty paths.
func (c ContentConfig) LoadContent() (*generator.TemplateLibrary, *spawn.Tables, error) {
	templates := generator.DefaultTemplates()
	if c.Templates != "" {
		lib, err := generator.LoadTemplates(c.Templates)
		if err != nil {
			return nil, nil, err
		}
		templates = lib
	}

	tables := spawn.DefaultTables()
	if c.SpawnTables != "" {
		loaded, err := spawn.LoadTables(c.SpawnTables)
		if err != nil {
			return nil, nil, err
		}
		tables = loaded
	}
	return templates, &tables, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("seed", d.Seed)

	w := d.World
	v.SetDefault("world.floors", w.Floors)
	v.SetDefault("world.width", w.Width)
	v.SetDefault("world.height", w.Height)
	v.SetDefault("world.max_floor_attempts", w.MaxFloorAttempts)

	v.SetDefault("world.planner.target_rooms", w.Planner.TargetRooms)
	v.SetDefault("world.planner.max_attempts", w.Planner.MaxAttempts)
	v.SetDefault("world.planner.min_size", w.Planner.MinSize)
	v.SetDefault("world.planner.max_size", w.Planner.MaxSize)
	v.SetDefault("world.planner.padding", w.Planner.Padding)
	v.SetDefault("world.planner.fixed_chance", w.Planner.FixedChance)
	v.SetDefault("world.planner.unique_chance", w.Planner.UniqueChance)
	v.SetDefault("world.planner.shape_weights", w.Planner.ShapeWeights)
	v.SetDefault("world.planner.shape_min_size", w.Planner.ShapeMinSize)

	v.SetDefault("world.graph.extra_attempts", w.Graph.ExtraAttempts)
	v.SetDefault("world.graph.extra_chance", w.Graph.ExtraChance)

	v.SetDefault("world.features.none_weight", w.Features.NoneWeight)
	v.SetDefault("world.features.door_weight", w.Features.DoorWeight)
	v.SetDefault("world.features.breakable_weight", w.Features.BreakableWeight)
	v.SetDefault("world.features.lock_chance", w.Features.LockChance)
	locks := make([]map[string]any, 0, len(w.Features.Locks))
	for _, l := range w.Features.Locks {
		locks = append(locks, map[string]any{"color": l.Color, "min_floor": l.MinFloor})
	}
	v.SetDefault("world.features.locks", locks)

	v.SetDefault("world.cavern.fill_chance", w.Cavern.FillChance)
	v.SetDefault("world.cavern.smoothing", w.Cavern.Smoothing)
	v.SetDefault("world.cavern.sector_size", w.Cavern.SectorSize)
	v.SetDefault("world.cavern.min_open", w.Cavern.MinOpen)

	v.SetDefault("world.selection.cavern_chance", w.Selection.CavernChance)
	v.SetDefault("world.selection.cavern_min_floor", w.Selection.CavernMinFloor)
	fixed := make([]map[string]any, 0, len(w.Selection.FixedFloors))
	for _, f := range w.Selection.FixedFloors {
		fixed = append(fixed, map[string]any{"floor": f.Floor, "template": f.Template})
	}
	v.SetDefault("world.selection.fixed_floors", fixed)

	v.SetDefault("world.branch.count", w.Branch.Count)
	v.SetDefault("world.branch.length", w.Branch.Length)
	v.SetDefault("world.branch.candidates", w.Branch.Candidates)

	v.SetDefault("world.keys.branch_chance", w.Keys.BranchChance)
	v.SetDefault("world.keys.monster_chance", w.Keys.MonsterChance)
	v.SetDefault("world.keys.container_chance", w.Keys.ContainerChance)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file.path", d.Logging.File.Path)
	v.SetDefault("logging.file.max_size_mb", d.Logging.File.MaxSizeMB)
	v.SetDefault("logging.file.max_backups", d.Logging.File.MaxBackups)
	v.SetDefault("logging.file.max_age_days", d.Logging.File.MaxAgeDays)

	v.SetDefault("content.templates", d.Content.Templates)
	v.SetDefault("content.spawn_tables", d.Content.SpawnTables)
	v.SetDefault("content.locale_dir", d.Content.LocaleDir)
	v.SetDefault("content.language", d.Content.Language)
}
