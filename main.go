package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gookit/color"
	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"dungeonforge/pkg/config"
	"dungeonforge/pkg/engine/terminal"
	"dungeonforge/pkg/game/devtools"
	gameworld "dungeonforge/pkg/game/world"
	"dungeonforge/pkg/logging"
)

func initGettext(c config.ContentConfig) {
	if c.LocaleDir == "" {
		return
	}
	gotext.Configure(c.LocaleDir, c.Language, "default")
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "", "path to configuration file (defaults and DUNGEON_* env vars when empty)")
	seed := flag.Int64("seed", 0, "world seed; 0 uses the configured seed, or the clock when that is 0 too")
	floors := flag.Int("floors", 0, "override the number of trunk floors")
	maps := flag.Bool("maps", false, "include floor maps in the dump")
	colorMode := flag.String("color", "auto", "colour map glyphs: auto, always or never")
	outPath := flag.String("out", "", "write the dump to this file instead of stdout")
	htmlPath := flag.String("html", "", "also write an HTML rendering of every floor to this file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *floors > 0 {
		cfg.World.Floors = *floors
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	// Initialize logger
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	initGettext(cfg.Content)

	templates, tables, err := cfg.Content.LoadContent()
	if err != nil {
		logger.Fatal("loading content", zap.Error(err))
	}

	w, err := gameworld.Generate(cfg.World, gameworld.Options{
		Seed:      cfg.Seed,
		Logger:    logger,
		Templates: templates,
		Tables:    tables,
	})
	if err != nil {
		logger.Fatal("generating world", zap.Int64("seed", cfg.Seed), zap.Error(err))
	}

	opts := devtools.DumpOptions{Maps: *maps}
	switch *colorMode {
	case "always":
		opts.Color = true
	case "auto":
		opts.Color = *outPath == "" && terminal.IsTerminal(os.Stdout) && color.SupportColor()
	}
	if opts.Color {
		color.ForceColor()
	}

	if *outPath != "" {
		path, err := devtools.DumpWorldToFile(w, *outPath, opts)
		if err != nil {
			logger.Fatal("writing dump file", zap.String("path", *outPath), zap.Error(err))
		}
		logger.Info("wrote world dump", zap.String("path", path))
	} else {
		if *maps && !terminal.FitsMap(cfg.World.Width, cfg.World.Height) {
			logger.Warn("terminal is smaller than the floor maps", zap.Int("width", cfg.World.Width), zap.Int("height", cfg.World.Height))
		}
		if err := devtools.DumpWorld(os.Stdout, w, opts); err != nil {
			logger.Fatal("writing dump", zap.Error(err))
		}
	}

	if *htmlPath != "" {
		f, err := os.Create(*htmlPath)
		if err != nil {
			logger.Fatal("creating html file", zap.String("path", *htmlPath), zap.Error(err))
		}
		if err := devtools.WriteWorldHTML(f, w, nil); err != nil {
			logger.Fatal("writing html", zap.Error(err))
		}
		if err := f.Close(); err != nil {
			logger.Fatal("closing html file", zap.Error(err))
		}
	}

	logger.Info("done",
		zap.Int64("seed", cfg.Seed),
		zap.Int("floors", len(w.Floors())),
		zap.Duration("elapsed", time.Since(start)),
	)
}
