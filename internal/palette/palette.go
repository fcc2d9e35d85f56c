// Package palette maps terrain cells to colors and packs them into the flat
// buffers a renderer uploads.
package palette

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/talgya/hexterrain/internal/world"
)

// RGB is a color with channels in [0, 255].
type RGB struct {
	R, G, B float64
}

// Curve is a shading function applied to a base color by relative altitude.
type Curve uint8

const (
	// Brighten divides by (1 - r*1.4): land lightens with height.
	Brighten Curve = iota
	// BrightenWater divides by (1 - r*7.0): thin depth bands shade quickly.
	BrightenWater
	// Darken multiplies by (1 - cbrt(r)): rock falls into shadow with height.
	Darken
)

func (c Curve) String() string {
	switch c {
	case Brighten:
		return "brighten"
	case BrightenWater:
		return "brighten_water"
	case Darken:
		return "darken"
	}
	return "unknown"
}

// Apply shades base by relative altitude r. Every channel is clamped to [0, 255].
func (c Curve) Apply(base RGB, r float64) RGB {
	var f func(ch float64) float64
	switch c {
	case BrightenWater:
		f = func(ch float64) float64 { return ch / (1 - r*7.0) }
	case Darken:
		f = func(ch float64) float64 { return ch * (1 - math.Cbrt(r)) }
	default:
		f = func(ch float64) float64 { return ch / (1 - r*1.4) }
	}
	return RGB{
		R: clamp(f(base.R), 0, 255),
		G: clamp(f(base.G), 0, 255),
		B: clamp(f(base.B), 0, 255),
	}
}

// Swatch is the fixed color rule of a terrain type.
type Swatch struct {
	Base  RGB
	Curve Curve
}

var swatches = map[world.CellType]Swatch{
	world.Grass:          {RGB{125, 205, 127}, Brighten},
	world.ShallowWater:   {RGB{40, 100, 160}, BrightenWater},
	world.Water:          {RGB{15, 15, 160}, BrightenWater},
	world.MediumWater:    {RGB{22, 30, 64}, BrightenWater},
	world.DeepWater:      {RGB{30, 50, 100}, Darken},
	world.Sand:           {RGB{230, 210, 100}, Brighten},
	world.Snow:           {RGB{230, 230, 230}, Brighten},
	world.River:          {RGB{50, 100, 150}, Brighten},
	world.Tundra:         {RGB{20, 100, 20}, Brighten},
	world.Mountain:       {RGB{100, 100, 100}, Darken},
	world.MediumMountain: {RGB{80, 80, 80}, Darken},
	world.HighMountain:   {RGB{60, 60, 60}, Darken},
	world.Dirt:           {RGB{196, 210, 130}, Brighten},
	world.Tree:           {RGB{50, 150, 50}, Brighten},
	world.Ice:            {RGB{150, 150, 200}, BrightenWater},
	world.Cliff:          {RGB{150, 150, 130}, Darken},
	world.MediumCliff:    {RGB{130, 130, 110}, Darken},
	world.Lake:           {RGB{40, 100, 160}, Brighten},
}

// SwatchFor returns the color rule of a terrain type.
func SwatchFor(t world.CellType) (Swatch, bool) {
	s, ok := swatches[t]
	return s, ok
}

// Shade returns the color of a cell of type t at relative altitude r.
// Unknown types render black.
func Shade(t world.CellType, r float64) RGB {
	s, ok := swatches[t]
	if !ok {
		return RGB{}
	}
	return s.Curve.Apply(s.Base, r)
}

// ShadeCell is Shade for a grid cell.
func ShadeCell(c world.Cell) RGB {
	return Shade(c.Type, c.RelativeAltitude)
}

// clamp bounds v to [lo, hi]. NaN maps to lo.
func clamp[T constraints.Float](v, lo, hi T) T {
	if v != v || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
