// Command worldserver generates a world on start and serves it over HTTP
// until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexterrain/internal/api"
	"github.com/talgya/hexterrain/internal/config"
	"github.com/talgya/hexterrain/internal/logging"
	"github.com/talgya/hexterrain/internal/persistence"
	"github.com/talgya/hexterrain/internal/world"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to built-in settings)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logging.Setup(*verbose)
	slog.Info("hexterrain world server")

	cfg, err := loadConfig(*configPath, *port)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := openCatalog(cfg.Store.Path)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
		slog.Info("database opened", "path", cfg.Store.Path)
	}

	gen := cfg.GenConfig()
	slog.Info("generating world...", "cells", humanize.Comma(int64(gen.Width*gen.Height)))
	w := world.Generate(gen)

	adminKey := os.Getenv("WORLDSIM_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("WORLDSIM_ADMIN_KEY not set; regenerate endpoint disabled")
	}

	apiServer := &api.Server{
		Gen:               gen,
		DB:                db,
		Port:              cfg.API.Port,
		AdminKey:          adminKey,
		RegeneratePerHour: cfg.API.RegeneratePerHour,
	}
	runID := apiServer.Record(w)

	slog.Info("world ready",
		"seed", w.Seed,
		"run_id", runID,
		"took", w.Report.Duration.Round(time.Millisecond),
		"river_cells", humanize.Comma(int64(w.Report.Rivers.Cells)),
	)

	apiServer.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.API.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

// loadConfig reads the file when given, else the env payload, else defaults,
// then applies a non-zero port override and validates the result.
func loadConfig(path string, port int) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		var ok bool
		cfg, ok, err = config.FromEnv()
		if err == nil && !ok {
			cfg = config.Default()
		}
	}
	if err != nil {
		return nil, err
	}
	if port != 0 {
		cfg.API.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// openCatalog opens the run catalog, creating its directory. An empty path
// disables the catalog and returns a nil DB.
func openCatalog(path string) (*persistence.DB, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return persistence.Open(path)
}
