// World generation using layered noise.
// Samples six noise channels per cell, classifies terrain, then carves rivers.
package world

import (
	"time"

	"github.com/talgya/hexterrain/internal/entropy"
	"github.com/talgya/hexterrain/internal/noise"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width  int    // Grid columns
	Height int    // Grid rows
	Seed   uint64 // Run seed (0 = wall clock)
	Noise  noise.Config
	Rivers RiverConfig
}

// DefaultGenConfig returns the reference 1000x1000 configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:  1000,
		Height: 1000,
		Seed:   0,
		Noise:  noise.DefaultConfig(),
		Rivers: DefaultRiverConfig(),
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	cfg := DefaultGenConfig()
	cfg.Width = 64
	cfg.Height = 64
	cfg.Seed = 42
	return cfg
}

// Report describes one generation run.
type Report struct {
	Seed     uint64           `json:"seed"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Duration time.Duration    `json:"duration"`
	Descent  string           `json:"descent"`
	Counts   map[CellType]int `json:"-"`
	Rivers   RiverStats       `json:"rivers"`
}

// World is a generated grid plus the seed and report that produced it.
type World struct {
	Grid   *Grid
	Seed   uint64
	Report Report
}

// Generate creates a fully classified, river-carved world.
func Generate(cfg GenConfig) *World {
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.ClockSeed()
	}
	channels := noise.NewChannels(seed, cfg.Noise)
	return GenerateWith(cfg, seed, channels, entropy.NewRNG(seed))
}

// GenerateWith runs the pipeline on caller-supplied channels and RNG.
func GenerateWith(cfg GenConfig, seed uint64, channels *noise.Channels, rng Rand) *World {
	start := time.Now()

	grid := Build(cfg.Width, cfg.Height, channels)
	rivers := CarveRivers(grid, rng, cfg.Rivers)

	return &World{
		Grid: grid,
		Seed: seed,
		Report: Report{
			Seed:     seed,
			Width:    cfg.Width,
			Height:   cfg.Height,
			Duration: time.Since(start),
			Descent:  cfg.Rivers.Descent.String(),
			Counts:   TerrainCounts(grid),
			Rivers:   rivers,
		},
	}
}

// Build samples every cell and classifies it. No rivers are carved.
func Build(width, height int, channels *noise.Channels) *Grid {
	g := NewGrid(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s := channels.Sample(x, y)
			t, rel := Classify(s.Altitude, s.Temperature, s.Vegetation, s.Beach, s.Cliff)
			*g.At(x, y) = Cell{Type: t, Altitude: s.Altitude, RelativeAltitude: rel}
		}
	}
	return g
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(g *Grid) map[CellType]int {
	counts := make(map[CellType]int)
	for _, c := range g.Cells() {
		counts[c.Type]++
	}
	return counts
}

// NamedCounts returns terrain counts keyed by type name.
func NamedCounts(counts map[CellType]int) map[string]int {
	named := make(map[string]int, len(counts))
	for t, c := range counts {
		named[t.String()] = c
	}
	return named
}
