package world

import "fmt"

// Rand is the randomness a river pass needs. entropy.RNG satisfies it; tests
// substitute fixed draws.
type Rand interface {
	Chance(p float64) bool
	Shuffle(n int, swap func(i, j int))
}

// DescentMode selects how a walk picks its next step.
type DescentMode uint8

const (
	// DescentFirstLower takes the first shuffled neighbor that is lower than
	// the first candidate. Kept for compatibility with existing worlds.
	DescentFirstLower DescentMode = iota
	// DescentSteepest scans every neighbor and takes the lowest.
	DescentSteepest
)

func (m DescentMode) String() string {
	switch m {
	case DescentFirstLower:
		return "first_lower"
	case DescentSteepest:
		return "steepest"
	}
	return "unknown"
}

// ParseDescentMode parses a mode name. An empty name selects first_lower.
func ParseDescentMode(name string) (DescentMode, error) {
	switch name {
	case "", "first_lower":
		return DescentFirstLower, nil
	case "steepest":
		return DescentSteepest, nil
	}
	return 0, fmt.Errorf("unknown descent mode %q", name)
}

// RiverConfig holds river carving parameters.
type RiverConfig struct {
	Chance    float64     // Probability that a source cell starts a walk
	MaxUphill float64     // Largest altitude rise a single step may take
	Descent   DescentMode // Step selection rule
}

// DefaultRiverConfig returns the reference river parameters.
func DefaultRiverConfig() RiverConfig {
	return RiverConfig{
		Chance:    0.0008,
		MaxUphill: 0.04,
		Descent:   DescentFirstLower,
	}
}

// EndReason records why a river walk stopped. None of them is an error.
type EndReason uint8

const (
	EndBoundary     EndReason = iota // Reached a grid edge cell
	EndDeadEnd                       // Every neighbor already visited
	EndReachedWater                  // A scanned neighbor is a body of water
	EndTooSteep                      // Next step would climb more than MaxUphill

	numEndReasons
)

func (e EndReason) String() string {
	switch e {
	case EndBoundary:
		return "boundary"
	case EndDeadEnd:
		return "dead_end"
	case EndReachedWater:
		return "reached_water"
	case EndTooSteep:
		return "too_steep"
	}
	return "unknown"
}

// Walk is the trace of one river.
type Walk struct {
	Source    DoubledCoord
	Path      []DoubledCoord // Every position turned into River, in order
	Converted int            // Cells that were not River before this walk
	End       EndReason
}

// RiverStats summarizes a carving pass.
type RiverStats struct {
	Walks   int            `json:"walks"`
	Cells   int            `json:"cells"`   // Cells converted to River
	Longest int            `json:"longest"` // Longest path in cells
	Ends    map[string]int `json:"ends"`    // Walk count per end reason
}

func (s *RiverStats) add(w Walk) {
	if s.Ends == nil {
		s.Ends = make(map[string]int, numEndReasons)
	}
	s.Walks++
	s.Cells += w.Converted
	if len(w.Path) > s.Longest {
		s.Longest = len(w.Path)
	}
	s.Ends[w.End.String()]++
}

// CarveRivers scans every cell once in row-major order and starts a walk from
// each river source cell that wins its Bernoulli draw. Walks mutate the grid
// in place, so a later source may already have been turned into River.
func CarveRivers(g *Grid, rng Rand, cfg RiverConfig) RiverStats {
	stats := RiverStats{Ends: make(map[string]int, numEndReasons)}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.At(x, y).Type.IsRiverSource() || !rng.Chance(cfg.Chance) {
				continue
			}
			stats.add(TraceRiver(g, FromOffset(x, y), rng, cfg))
		}
	}
	return stats
}

// TraceRiver walks downhill from start, turning every visited cell into
// River until one of the end conditions fires. The visited set is local to
// this walk; other walks may cross it.
func TraceRiver(g *Grid, start DoubledCoord, rng Rand, cfg RiverConfig) Walk {
	walk := Walk{Source: start}
	visited := make(map[DoubledCoord]struct{})
	current := start

	for {
		cell := g.AtDoubled(current)
		if cell.Type != River {
			cell.Type = River
			walk.Converted++
		}
		visited[current] = struct{}{}
		walk.Path = append(walk.Path, current)

		neighbors := g.Neighbors(current)
		if len(neighbors) < 6 {
			walk.End = EndBoundary
			return walk
		}

		candidates := neighbors[:0]
		for _, n := range neighbors {
			if _, seen := visited[n]; !seen {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) == 0 {
			walk.End = EndDeadEnd
			return walk
		}

		rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		next, water := nextStep(g, candidates, cfg.Descent)
		if water {
			walk.End = EndReachedWater
			return walk
		}

		if g.AtDoubled(next).Altitude > cell.Altitude+cfg.MaxUphill {
			walk.End = EndTooSteep
			return walk
		}
		current = next
	}
}

// nextStep scans shuffled candidates. It reports water=true as soon as a
// scanned candidate is a body of water.
func nextStep(g *Grid, candidates []DoubledCoord, mode DescentMode) (DoubledCoord, bool) {
	best := candidates[0]
	bestAlt := g.AtDoubled(best).Altitude

	for _, c := range candidates {
		nc := g.AtDoubled(c)
		if nc.Type.IsWater() {
			return c, true
		}
		if nc.Altitude < bestAlt {
			best, bestAlt = c, nc.Altitude
			if mode == DescentFirstLower {
				// First strictly lower candidate wins; the rest are never scanned.
				break
			}
		}
	}
	return best, false
}
