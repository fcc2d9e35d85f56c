package world

import (
	"math"
	"testing"

	"github.com/talgya/hexterrain/internal/entropy"
	"github.com/talgya/hexterrain/internal/noise"
)

func smallConfig(w, h int, seed uint64) GenConfig {
	cfg := DefaultGenConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Seed = seed
	return cfg
}

func TestGenerateDeterministicForSeed(t *testing.T) {
	cfg := smallConfig(48, 40, 1234)
	cfg.Rivers.Chance = 0.05

	a := Generate(cfg)
	b := Generate(cfg)

	if a.Seed != 1234 || b.Seed != 1234 {
		t.Fatalf("seeds = %d, %d; want 1234", a.Seed, b.Seed)
	}
	ca, cb := a.Grid.Cells(), b.Grid.Cells()
	if len(ca) != len(cb) {
		t.Fatalf("grid sizes differ: %d vs %d", len(ca), len(cb))
	}
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("cell %d differs: %+v vs %+v", i, ca[i], cb[i])
		}
	}
	if a.Report.Rivers.Walks != b.Report.Rivers.Walks || a.Report.Rivers.Cells != b.Report.Rivers.Cells {
		t.Fatalf("river stats differ: %+v vs %+v", a.Report.Rivers, b.Report.Rivers)
	}
}

func TestGenerateAssignsClockSeedWhenZero(t *testing.T) {
	w := Generate(smallConfig(4, 4, 0))
	if w.Seed == 0 {
		t.Fatal("expected a non-zero seed to be chosen")
	}
	if w.Report.Seed != w.Seed {
		t.Fatalf("report seed %d != world seed %d", w.Report.Seed, w.Seed)
	}
}

func TestBuildClassificationInvariants(t *testing.T) {
	ch := noise.NewChannels(99, noise.DefaultConfig())
	g := Build(64, 64, ch)

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := g.At(x, y)
			if c.RelativeAltitude < 0 {
				t.Fatalf("(%d,%d) %s has relative altitude %f", x, y, c.Type, c.RelativeAltitude)
			}
			if c.Altitude < 0 || c.Altitude > 1 {
				t.Fatalf("(%d,%d) altitude %f out of [0,1]", x, y, c.Altitude)
			}
			if c.Type == DeepWater && c.Altitude > MediumWaterLine {
				t.Fatalf("(%d,%d) DeepWater at altitude %f", x, y, c.Altitude)
			}
			if c.Altitude > SnowLine && c.Type != Snow {
				t.Fatalf("(%d,%d) altitude %f classified %s", x, y, c.Altitude, c.Type)
			}
			if c.Type == River {
				t.Fatalf("(%d,%d) River before carving", x, y)
			}
		}
	}
}

func TestGenerateSnowWorldHasNoRivers(t *testing.T) {
	cfg := smallConfig(4, 4, 42)
	cfg.Rivers.Chance = 1

	ch := noise.NewChannels(42, cfg.Noise)
	ch.Altitude = noise.Channel{Field: noise.Constant(0.8)} // normalizes to 0.9

	w := GenerateWith(cfg, 42, ch, entropy.NewRNG(42))

	if w.Report.Rivers.Walks != 0 {
		t.Fatalf("started %d river walks on an all-snow world", w.Report.Rivers.Walks)
	}
	for i, c := range w.Grid.Cells() {
		if c.Type != Snow {
			t.Fatalf("cell %d is %s, want Snow", i, c.Type)
		}
		if math.Abs(c.RelativeAltitude-0.05) > 1e-9 {
			t.Fatalf("cell %d relative altitude %f, want 0.05", i, c.RelativeAltitude)
		}
	}
	if w.Report.Counts[Snow] != 16 {
		t.Fatalf("snow count = %d, want 16", w.Report.Counts[Snow])
	}
}

func TestGenerateCarvesRiversFromHighRelief(t *testing.T) {
	cfg := smallConfig(80, 80, 7)
	cfg.Rivers.Chance = 1

	ch := noise.NewChannels(7, cfg.Noise)
	g := Build(cfg.Width, cfg.Height, ch)
	sources := 0
	for _, c := range g.Cells() {
		if c.Type.IsRiverSource() {
			sources++
		}
	}

	w := GenerateWith(cfg, 7, ch, entropy.NewRNG(7))
	if sources > 0 && w.Report.Rivers.Walks == 0 {
		t.Fatalf("%d sources but no walks with chance 1", sources)
	}
	if w.Report.Counts[River] != w.Report.Rivers.Cells {
		t.Fatalf("river count %d != converted cells %d", w.Report.Counts[River], w.Report.Rivers.Cells)
	}
	ends := 0
	for _, n := range w.Report.Rivers.Ends {
		ends += n
	}
	if ends != w.Report.Rivers.Walks {
		t.Fatalf("end reasons sum to %d, want %d", ends, w.Report.Rivers.Walks)
	}
}

func TestNamedCounts(t *testing.T) {
	named := NamedCounts(map[CellType]int{Snow: 3, River: 2})
	if named["Snow"] != 3 || named["River"] != 2 || len(named) != 2 {
		t.Fatalf("named counts = %v", named)
	}
}
