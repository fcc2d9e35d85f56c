package noise

import "math"

// Kind names the fractal layer a channel is built from.
type Kind string

const (
	KindFbm    Kind = "fbm"
	KindRidged Kind = "ridged"
)

// DefaultScale converts grid coordinates to noise space, so features span tens of cells.
const DefaultScale = 0.01

// ChannelConfig describes one noise channel.
type ChannelConfig struct {
	Kind        Kind    `yaml:"kind"`
	SeedOffset  int64   `yaml:"seed_offset"`
	Frequency   float64 `yaml:"frequency"`
	Octaves     int     `yaml:"octaves"`
	Lacunarity  float64 `yaml:"lacunarity,omitempty"`
	Persistence float64 `yaml:"persistence,omitempty"`
	Attenuation float64 `yaml:"attenuation,omitempty"`
	Roughness   int     `yaml:"roughness,omitempty"` // turbulence octaves; 0 disables turbulence
	Power       float64 `yaml:"power,omitempty"`
	Exponent    float64 `yaml:"exponent,omitempty"` // applied after normalization; 0 or 1 is identity
}

func (c ChannelConfig) params() Params {
	return Params{
		Frequency:   c.Frequency,
		Octaves:     c.Octaves,
		Lacunarity:  c.Lacunarity,
		Persistence: c.Persistence,
		Attenuation: c.Attenuation,
	}
}

// Config holds every channel plus the shared basis and coordinate scale.
type Config struct {
	Basis       Basis         `yaml:"basis"`
	Scale       float64       `yaml:"scale"`
	Altitude    ChannelConfig `yaml:"altitude"`
	Temperature ChannelConfig `yaml:"temperature"`
	Vegetation  ChannelConfig `yaml:"vegetation"`
	Beach       ChannelConfig `yaml:"beach"`
	Cliff       ChannelConfig `yaml:"cliff"`
	Lake        ChannelConfig `yaml:"lake"`
}

// DefaultConfig returns the reference channel layout.
func DefaultConfig() Config {
	return Config{
		Basis: BasisSimplex,
		Scale: DefaultScale,
		Altitude: ChannelConfig{
			Kind: KindFbm, SeedOffset: 0, Frequency: 0.2, Octaves: 10,
		},
		Temperature: ChannelConfig{
			Kind: KindFbm, SeedOffset: 10, Frequency: 0.25, Octaves: DefaultOctaves,
		},
		Vegetation: ChannelConfig{
			Kind: KindFbm, SeedOffset: 20, Frequency: 0.3, Octaves: DefaultOctaves,
			Roughness: 20, Power: 2.0,
		},
		Beach: ChannelConfig{
			Kind: KindFbm, SeedOffset: 30, Frequency: 0.35, Octaves: DefaultOctaves,
		},
		Cliff: ChannelConfig{
			Kind: KindRidged, SeedOffset: 40, Frequency: 1.0, Octaves: 10,
			Attenuation: 0.8, Persistence: 5.0, Exponent: 0.1,
		},
		// Reserved: sampled but not consumed by classification yet.
		Lake: ChannelConfig{
			Kind: KindFbm, SeedOffset: 50, Frequency: 0.2, Octaves: 10,
		},
	}
}

// Channel is a field plus its post-normalization shaping.
type Channel struct {
	Field    Field
	Exponent float64
}

// Value samples the field and returns a value in [0, 1].
func (c Channel) Value(x, y float64) float64 {
	v := Normalize(c.Field.Sample(x, y))
	if c.Exponent > 0 && c.Exponent != 1 {
		v = math.Pow(v, c.Exponent)
	}
	return v
}

// NewChannel builds a channel from its config under the run seed.
func NewChannel(b Basis, runSeed uint64, cfg ChannelConfig) Channel {
	seed := int64(runSeed + uint64(cfg.SeedOffset))

	var f Field
	switch cfg.Kind {
	case KindRidged:
		f = NewRidgedMulti(b, seed, cfg.params())
	default:
		f = NewFbm(b, seed, cfg.params())
	}
	if cfg.Roughness > 0 {
		// Distortion octaves get their own seed block so they never reuse the source's octaves.
		f = NewTurbulence(f, b, seed+1000, cfg.Roughness, cfg.Power)
	}
	return Channel{Field: f, Exponent: cfg.Exponent}
}

// Sample is every channel evaluated at one grid position, each in [0, 1].
type Sample struct {
	Altitude    float64
	Temperature float64
	Vegetation  float64
	Beach       float64
	Cliff       float64
	Lake        float64
}

// Channels owns the independently seeded fields for one generation run.
// Channels share no mutable state, so a Channels value is safe to sample
// from several goroutines.
type Channels struct {
	Scale       float64
	Altitude    Channel
	Temperature Channel
	Vegetation  Channel
	Beach       Channel
	Cliff       Channel
	Lake        Channel
}

// NewChannels builds all six channels for a run seed.
func NewChannels(seed uint64, cfg Config) *Channels {
	scale := cfg.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	b := cfg.Basis
	if b == "" {
		b = BasisSimplex
	}
	return &Channels{
		Scale:       scale,
		Altitude:    NewChannel(b, seed, cfg.Altitude),
		Temperature: NewChannel(b, seed, cfg.Temperature),
		Vegetation:  NewChannel(b, seed, cfg.Vegetation),
		Beach:       NewChannel(b, seed, cfg.Beach),
		Cliff:       NewChannel(b, seed, cfg.Cliff),
		Lake:        NewChannel(b, seed, cfg.Lake),
	}
}

// Sample evaluates every channel at grid position (x, y).
func (c *Channels) Sample(x, y int) Sample {
	sx := float64(x) * c.Scale
	sy := float64(y) * c.Scale
	return Sample{
		Altitude:    c.Altitude.Value(sx, sy),
		Temperature: c.Temperature.Value(sx, sy),
		Vegetation:  c.Vegetation.Value(sx, sy),
		Beach:       c.Beach.Value(sx, sy),
		Cliff:       c.Cliff.Value(sx, sy),
		Lake:        c.Lake.Value(sx, sy),
	}
}
