package world

import (
	"testing"

	"github.com/talgya/hexterrain/internal/entropy"
)

// forcedRand fires every Bernoulli draw and leaves shuffles in enumeration order.
type forcedRand struct{}

func (forcedRand) Chance(p float64) bool              { return true }
func (forcedRand) Shuffle(n int, swap func(i, j int)) {}

func fillGrid(g *Grid, c Cell) {
	for i := range g.Cells() {
		g.Cells()[i] = c
	}
}

// mountainBesideSea builds a 3x3 grid of high snow with a Mountain in the
// center and a DeepWater cell east of it.
func mountainBesideSea() *Grid {
	g := NewGrid(3, 3)
	fillGrid(g, Cell{Type: Snow, Altitude: 0.9, RelativeAltitude: 0.05})
	*g.At(1, 1) = Cell{Type: Mountain, Altitude: 0.79, RelativeAltitude: 0.01}
	*g.At(2, 1) = Cell{Type: DeepWater, Altitude: 0.30, RelativeAltitude: 0.30}
	return g
}

func TestRiverStopsBesideWaterAfterOneStep(t *testing.T) {
	g := mountainBesideSea()
	before := g.Clone()

	stats := CarveRivers(g, forcedRand{}, DefaultRiverConfig())

	if stats.Walks != 1 || stats.Cells != 1 || stats.Longest != 1 {
		t.Fatalf("stats = %+v, want one walk converting one cell", stats)
	}
	if stats.Ends[EndReachedWater.String()] != 1 {
		t.Fatalf("walk ended with %v, want reached_water", stats.Ends)
	}
	if g.At(1, 1).Type != River {
		t.Fatalf("source cell is %s, want River", g.At(1, 1).Type)
	}
	if g.At(2, 1).Type != DeepWater {
		t.Fatalf("water cell became %s", g.At(2, 1).Type)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if x == 1 && y == 1 {
				continue
			}
			if *g.At(x, y) != *before.At(x, y) {
				t.Fatalf("cell (%d,%d) changed from %+v to %+v", x, y, *before.At(x, y), *g.At(x, y))
			}
		}
	}
}

func TestRiverStopsBesideWaterForAnyShuffle(t *testing.T) {
	cfg := DefaultRiverConfig()
	cfg.Chance = 1
	for seed := uint64(1); seed <= 64; seed++ {
		g := mountainBesideSea()
		stats := CarveRivers(g, entropy.NewRNG(seed), cfg)
		if stats.Walks != 1 || stats.Longest != 1 {
			t.Fatalf("seed %d: stats = %+v", seed, stats)
		}
		if g.At(1, 1).Type != River || g.At(2, 1).Type != DeepWater {
			t.Fatalf("seed %d: center=%s east=%s", seed, g.At(1, 1).Type, g.At(2, 1).Type)
		}
	}
}

func TestRiverSourcesRequireHighRelief(t *testing.T) {
	g := NewGrid(4, 4)
	fillGrid(g, Cell{Type: Snow, Altitude: 0.9, RelativeAltitude: 0.05})

	stats := CarveRivers(g, forcedRand{}, DefaultRiverConfig())
	if stats.Walks != 0 {
		t.Fatalf("started %d walks on a snow-only grid", stats.Walks)
	}
	for _, c := range g.Cells() {
		if c.Type != Snow {
			t.Fatalf("cell became %s", c.Type)
		}
	}
}

func TestRiverEndsAtBoundary(t *testing.T) {
	g := NewGrid(3, 3)
	fillGrid(g, Cell{Type: Grass, Altitude: 0.6})
	*g.At(0, 0) = Cell{Type: Mountain, Altitude: 0.79}

	walk := TraceRiver(g, FromOffset(0, 0), forcedRand{}, DefaultRiverConfig())
	if walk.End != EndBoundary || len(walk.Path) != 1 {
		t.Fatalf("walk = %+v, want a single boundary step", walk)
	}
	if g.At(0, 0).Type != River {
		t.Fatalf("edge source is %s, want River", g.At(0, 0).Type)
	}
}

func TestRiverRefusesSteepClimb(t *testing.T) {
	g := NewGrid(3, 3)
	fillGrid(g, Cell{Type: Grass, Altitude: 0.9})
	*g.At(1, 1) = Cell{Type: Cliff, Altitude: 0.66}

	walk := TraceRiver(g, FromOffset(1, 1), forcedRand{}, DefaultRiverConfig())
	if walk.End != EndTooSteep {
		t.Fatalf("walk ended with %s, want too_steep", walk.End)
	}
	if len(walk.Path) != 1 {
		t.Fatalf("walk advanced %d cells", len(walk.Path))
	}
	for i, c := range g.Cells() {
		if i != g.Index(1, 1) && c.Type != Grass {
			t.Fatalf("neighbor %d became %s", i, c.Type)
		}
	}
}

func TestRiverAllowsSmallClimb(t *testing.T) {
	g := NewGrid(3, 3)
	fillGrid(g, Cell{Type: Grass, Altitude: 0.69})
	*g.At(1, 1) = Cell{Type: Cliff, Altitude: 0.66}

	walk := TraceRiver(g, FromOffset(1, 1), forcedRand{}, DefaultRiverConfig())
	if len(walk.Path) != 2 {
		t.Fatalf("walk path = %v, want the source plus one step", walk.Path)
	}
	if walk.End != EndBoundary {
		t.Fatalf("walk ended with %s, want boundary", walk.End)
	}
}

// descentGrid is a 3x3 grid whose center neighbors have distinct altitudes.
// In enumeration order: east 0.50, north-east 0.45, north-west 0.40,
// west 0.30, south-west 0.35, south-east 0.42.
func descentGrid() *Grid {
	g := NewGrid(3, 3)
	fillGrid(g, Cell{Type: Grass, Altitude: 0.95})
	*g.At(1, 1) = Cell{Type: Mountain, Altitude: 0.79}
	g.At(2, 1).Altitude = 0.50
	g.At(2, 0).Altitude = 0.45
	g.At(1, 0).Altitude = 0.40
	g.At(0, 1).Altitude = 0.30
	g.At(1, 2).Altitude = 0.35
	g.At(2, 2).Altitude = 0.42
	return g
}

func TestFirstLowerDescentTakesFirstLowerNeighbor(t *testing.T) {
	g := descentGrid()
	walk := TraceRiver(g, FromOffset(1, 1), forcedRand{}, DefaultRiverConfig())

	if len(walk.Path) != 2 {
		t.Fatalf("path = %v, want two cells", walk.Path)
	}
	if want := FromOffset(2, 0); walk.Path[1] != want {
		t.Fatalf("stepped to %+v, want north-east %+v", walk.Path[1], want)
	}
}

func TestSteepestDescentTakesLowestNeighbor(t *testing.T) {
	g := descentGrid()
	cfg := DefaultRiverConfig()
	cfg.Descent = DescentSteepest
	walk := TraceRiver(g, FromOffset(1, 1), forcedRand{}, cfg)

	if len(walk.Path) != 2 {
		t.Fatalf("path = %v, want two cells", walk.Path)
	}
	if want := FromOffset(0, 1); walk.Path[1] != want {
		t.Fatalf("stepped to %+v, want west %+v", walk.Path[1], want)
	}
}

func TestRiverWalksTerminateWithoutRevisits(t *testing.T) {
	const w, h = 24, 18
	rng := entropy.NewRNG(77)

	base := NewGrid(w, h)
	for i := range base.Cells() {
		base.Cells()[i] = Cell{Type: Mountain, Altitude: 0.7 + rng.Float()*0.1}
	}

	cfg := DefaultRiverConfig()
	cfg.MaxUphill = 1 // only boundary or dead end may stop a walk

	for _, mode := range []DescentMode{DescentFirstLower, DescentSteepest} {
		cfg.Descent = mode
		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				g := base.Clone()
				walk := TraceRiver(g, FromOffset(x, y), rng, cfg)

				if len(walk.Path) > w*h {
					t.Fatalf("%s walk from (%d,%d) took %d steps", mode, x, y, len(walk.Path))
				}
				if walk.End != EndBoundary && walk.End != EndDeadEnd {
					t.Fatalf("%s walk from (%d,%d) ended with %s", mode, x, y, walk.End)
				}
				seen := make(map[DoubledCoord]bool, len(walk.Path))
				for _, p := range walk.Path {
					if seen[p] {
						t.Fatalf("%s walk from (%d,%d) revisited %+v", mode, x, y, p)
					}
					seen[p] = true
					if g.AtDoubled(p).Type != River {
						t.Fatalf("path cell %+v is %s", p, g.AtDoubled(p).Type)
					}
				}
				if walk.Converted != len(walk.Path) {
					t.Fatalf("converted %d of %d fresh cells", walk.Converted, len(walk.Path))
				}
			}
		}
	}
}

func TestRiverKeepsAltitudeAndRelativeAltitude(t *testing.T) {
	g := descentGrid()
	before := g.Clone()
	TraceRiver(g, FromOffset(1, 1), forcedRand{}, DefaultRiverConfig())

	for i, c := range g.Cells() {
		if c.Altitude != before.Cells()[i].Altitude {
			t.Fatalf("cell %d altitude changed", i)
		}
		if c.RelativeAltitude != before.Cells()[i].RelativeAltitude {
			t.Fatalf("cell %d relative altitude changed", i)
		}
	}
}

func TestParseDescentMode(t *testing.T) {
	for _, m := range []DescentMode{DescentFirstLower, DescentSteepest} {
		got, err := ParseDescentMode(m.String())
		if err != nil || got != m {
			t.Fatalf("ParseDescentMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseDescentMode("uphill"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
