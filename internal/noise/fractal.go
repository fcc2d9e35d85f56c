package noise

import "math"

const (
	DefaultOctaves     = 6
	DefaultFrequency   = 1.0
	DefaultLacunarity  = math.Pi * 2 / 3
	DefaultPersistence = 0.5
	DefaultAttenuation = 2.0
)

// Params configures a fractal layer. Zero fields fall back to the defaults above.
type Params struct {
	Frequency   float64
	Octaves     int
	Lacunarity  float64
	Persistence float64
	Attenuation float64 // ridged only
}

func (p Params) withDefaults() Params {
	if p.Frequency == 0 {
		p.Frequency = DefaultFrequency
	}
	if p.Octaves <= 0 {
		p.Octaves = DefaultOctaves
	}
	if p.Lacunarity == 0 {
		p.Lacunarity = DefaultLacunarity
	}
	if p.Persistence == 0 {
		p.Persistence = DefaultPersistence
	}
	if p.Attenuation == 0 {
		p.Attenuation = DefaultAttenuation
	}
	return p
}

// octaveSources seeds one basis source per octave: seed, seed+1, ...
func octaveSources(b Basis, seed int64, octaves int) []Field {
	srcs := make([]Field, octaves)
	for i := range srcs {
		srcs[i] = NewSource(b, seed+int64(i))
	}
	return srcs
}

// Fbm is fractal Brownian motion: an amplitude-normalized sum of octaves.
type Fbm struct {
	octaves []Field
	p       Params
}

// NewFbm builds an fBm field over the given basis.
func NewFbm(b Basis, seed int64, p Params) *Fbm {
	p = p.withDefaults()
	return &Fbm{octaves: octaveSources(b, seed, p.Octaves), p: p}
}

func (f *Fbm) Sample(x, y float64) float64 {
	x *= f.p.Frequency
	y *= f.p.Frequency

	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for _, src := range f.octaves {
		total += src.Sample(x, y) * amplitude
		maxVal += amplitude
		amplitude *= f.p.Persistence
		x *= f.p.Lacunarity
		y *= f.p.Lacunarity
	}
	return total / maxVal
}

// RidgedMulti is ridged multifractal noise. Each octave folds the basis
// around zero so creases become sharp ridges; the previous octave's signal
// weights the next one.
type RidgedMulti struct {
	octaves []Field
	p       Params
}

// NewRidgedMulti builds a ridged multifractal field over the given basis.
func NewRidgedMulti(b Basis, seed int64, p Params) *RidgedMulti {
	p = p.withDefaults()
	return &RidgedMulti{octaves: octaveSources(b, seed, p.Octaves), p: p}
}

func (r *RidgedMulti) Sample(x, y float64) float64 {
	x *= r.p.Frequency
	y *= r.p.Frequency

	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	weight := 1.0
	for _, src := range r.octaves {
		signal := 1 - math.Abs(src.Sample(x, y))
		signal *= signal
		signal *= weight

		weight = signal / r.p.Attenuation
		if weight < 0 {
			weight = 0
		} else if weight > 1 {
			weight = 1
		}

		total += signal * amplitude
		maxVal += amplitude
		amplitude *= r.p.Persistence
		x *= r.p.Lacunarity
		y *= r.p.Lacunarity
	}
	// total/maxVal is in [0, 1]; stretch back to the common [-1, 1] range.
	return total/maxVal*2 - 1
}

// Turbulence displaces the input coordinates of a source field by two
// independent fBm distortion fields before sampling it.
type Turbulence struct {
	source   Field
	distortX *Fbm
	distortY *Fbm
	power    float64
}

// NewTurbulence wraps source. Roughness is the octave count of the
// distortion fields; power scales the displacement.
func NewTurbulence(source Field, b Basis, seed int64, roughness int, power float64) *Turbulence {
	p := Params{Frequency: 1, Octaves: roughness}
	return &Turbulence{
		source:   source,
		distortX: NewFbm(b, seed, p),
		distortY: NewFbm(b, seed+1, p),
		power:    power,
	}
}

func (t *Turbulence) Sample(x, y float64) float64 {
	// Offset the distortion lookups so both axes never sample the same lattice point.
	dx := t.distortX.Sample(x+12414.0/65536.0, y+65124.0/65536.0)
	dy := t.distortY.Sample(x+26519.0/65536.0, y+18128.0/65536.0)
	return t.source.Sample(x+dx*t.power, y+dy*t.power)
}
