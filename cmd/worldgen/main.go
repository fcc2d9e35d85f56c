// Command worldgen generates one terrain world, logs a summary, exports the
// color buffer, and records the run.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexterrain/internal/config"
	"github.com/talgya/hexterrain/internal/logging"
	"github.com/talgya/hexterrain/internal/palette"
	"github.com/talgya/hexterrain/internal/persistence"
	"github.com/talgya/hexterrain/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file (defaults to built-in settings)")
		seed       = flag.Uint64("seed", 0, "run seed; 0 uses the clock")
		width      = flag.Int("width", 0, "grid width in cells")
		height     = flag.Int("height", 0, "grid height in cells")
		pngPath    = flag.String("png", "", "PNG output path; \"-\" disables")
		bufPath    = flag.String("buffer", "", "float32 RGBA output path; \"-\" disables")
		dbPath     = flag.String("db", "", "SQLite run catalog; \"-\" disables")
		descent    = flag.String("descent", "", "river descent: first_lower | steepest")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logging.Setup(*verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override file values only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			cfg.World.Seed = *seed
		case "width":
			cfg.World.Width = *width
		case "height":
			cfg.World.Height = *height
		case "png":
			cfg.Output.PNG = disabled(*pngPath)
		case "buffer":
			cfg.Output.Buffer = disabled(*bufPath)
		case "db":
			cfg.Store.Path = disabled(*dbPath)
		case "descent":
			cfg.Rivers.Descent = *descent
		}
	})
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	gen := cfg.GenConfig()
	slog.Info("generating world",
		"width", gen.Width,
		"height", gen.Height,
		"cells", humanize.Comma(int64(gen.Width*gen.Height)),
		"basis", gen.Noise.Basis,
		"descent", gen.Rivers.Descent,
	)

	w := world.Generate(gen)
	logSummary(w)

	if cfg.Output.PNG != "" {
		if err := palette.SavePNG(cfg.Output.PNG, w.Grid); err != nil {
			slog.Error("failed to write png", "error", err)
			os.Exit(1)
		}
		slog.Info("png written", "path", cfg.Output.PNG)
	}
	if cfg.Output.Buffer != "" {
		if err := palette.SaveBuffer(cfg.Output.Buffer, w.Grid); err != nil {
			slog.Error("failed to write color buffer", "error", err)
			os.Exit(1)
		}
		slog.Info("color buffer written", "path", cfg.Output.Buffer,
			"size", humanize.Bytes(uint64(w.Grid.CellCount()*4*4)))
	}

	if cfg.Store.Path != "" {
		if err := record(cfg.Store.Path, w); err != nil {
			slog.Error("failed to record run", "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("\nSeed %d: %dx%d cells, %d rivers carved in %s.\n",
		w.Seed, w.Grid.Width, w.Grid.Height, w.Report.Rivers.Walks,
		w.Report.Duration.Round(time.Millisecond))
}

// loadConfig reads the file when given, else the env payload, else defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	cfg, ok, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	if ok {
		slog.Info("config loaded from environment", "var", config.EnvPayload)
		return cfg, nil
	}
	return config.Default(), nil
}

func disabled(v string) string {
	if v == "-" {
		return ""
	}
	return v
}

func logSummary(w *world.World) {
	total := w.Grid.CellCount()
	for _, t := range world.AllCellTypes() {
		n := w.Report.Counts[t]
		if n == 0 {
			continue
		}
		slog.Info("terrain",
			"type", t.String(),
			"count", humanize.Comma(int64(n)),
			"share", fmt.Sprintf("%.2f%%", 100*float64(n)/float64(total)),
		)
	}

	rivers := w.Report.Rivers
	slog.Info("world ready",
		"seed", w.Seed,
		"took", w.Report.Duration.Round(time.Millisecond),
		"river_walks", rivers.Walks,
		"river_cells", humanize.Comma(int64(rivers.Cells)),
		"longest_river", rivers.Longest,
		"ends", rivers.Ends,
	)
}

func record(path string, w *world.World) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	db, err := persistence.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.SaveRun(w.Report)
	if err != nil {
		return err
	}
	if err := db.SaveMeta("last_run", id); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	slog.Info("run recorded", "db", path, "run_id", id)
	return nil
}
