// Package noise provides the coherent-noise fields that drive world generation.
// Basis sources come from opensimplex-go or go-perlin; fractal layering
// (fBm, ridged multifractal, turbulence) is built on top of them here.
package noise

import (
	"fmt"

	"github.com/aquilax/go-perlin"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Field is a deterministic 2-D noise function. Values are nominally in [-1, 1].
type Field interface {
	Sample(x, y float64) float64
}

// Basis selects the single-octave source used under every fractal layer.
// Simplex is the reference basis. Perlin gives smoother, lower-relief terrain:
// small worlds may have few or no mountain cells and therefore no rivers.
type Basis string

const (
	BasisSimplex Basis = "simplex"
	BasisPerlin  Basis = "perlin"
)

// ParseBasis validates a basis name. An empty name selects simplex.
func ParseBasis(name string) (Basis, error) {
	switch Basis(name) {
	case "", BasisSimplex:
		return BasisSimplex, nil
	case BasisPerlin:
		return BasisPerlin, nil
	}
	return "", fmt.Errorf("unknown noise basis %q", name)
}

// NewSource returns one octave of the given basis.
func NewSource(b Basis, seed int64) Field {
	if b == BasisPerlin {
		return perlinSource{p: perlin.NewPerlin(2, 2, 1, seed)}
	}
	return simplexSource{n: opensimplex.New(seed)}
}

type simplexSource struct {
	n opensimplex.Noise
}

func (s simplexSource) Sample(x, y float64) float64 {
	return s.n.Eval2(x, y)
}

// perlinGain stretches go-perlin's output, which peaks near ±0.7, toward the
// [-1, 1] range simplex covers.
const perlinGain = 2.0

type perlinSource struct {
	p *perlin.Perlin
}

func (s perlinSource) Sample(x, y float64) float64 {
	v := s.p.Noise2D(x, y) * perlinGain
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Constant is a field that returns the same value everywhere.
type Constant float64

func (c Constant) Sample(x, y float64) float64 {
	return float64(c)
}

// Normalize maps a [-1, 1] noise value to [0, 1], clamping stray overshoot.
func Normalize(v float64) float64 {
	v = (v + 1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
