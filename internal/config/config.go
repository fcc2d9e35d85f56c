// Package config loads generation and service settings from YAML.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexterrain/internal/noise"
	"github.com/talgya/hexterrain/internal/world"
)

// EnvPayload names the environment variable that may carry a base64 YAML config.
const EnvPayload = "HEXTERRAIN_CONFIG_YAML_B64"

// Config captures everything needed to generate, export, and serve a world.
type Config struct {
	World  WorldConfig  `yaml:"world"`
	Noise  noise.Config `yaml:"noise"`
	Rivers RiverConfig  `yaml:"rivers"`
	Output OutputConfig `yaml:"output"`
	Store  StoreConfig  `yaml:"store"`
	API    APIConfig    `yaml:"api"`
}

type WorldConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Seed   uint64 `yaml:"seed"` // 0 picks a seed from the clock
}

type RiverConfig struct {
	Chance    float64 `yaml:"chance"`     // per-source probability of starting a walk
	MaxUphill float64 `yaml:"max_uphill"` // largest rise a single step may take
	Descent   string  `yaml:"descent"`    // first_lower | steepest
}

type OutputConfig struct {
	PNG    string `yaml:"png"`    // path of the PNG export; empty disables
	Buffer string `yaml:"buffer"` // path of the raw float32 RGBA export; empty disables
}

type StoreConfig struct {
	Path string `yaml:"path"` // SQLite run catalog; empty disables
}

type APIConfig struct {
	Port              int `yaml:"port"`
	RegeneratePerHour int `yaml:"regenerate_per_hour"`
}

// Default returns the reference configuration.
func Default() *Config {
	gen := world.DefaultGenConfig()
	return &Config{
		World: WorldConfig{
			Width:  gen.Width,
			Height: gen.Height,
			Seed:   gen.Seed,
		},
		Noise: gen.Noise,
		Rivers: RiverConfig{
			Chance:    gen.Rivers.Chance,
			MaxUphill: gen.Rivers.MaxUphill,
			Descent:   gen.Rivers.Descent.String(),
		},
		Output: OutputConfig{
			PNG: "data/world.png",
		},
		Store: StoreConfig{
			Path: "data/hexterrain.db",
		},
		API: APIConfig{
			Port:              8080,
			RegeneratePerHour: 12,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// FromEnv decodes a config from EnvPayload. The boolean is false when the
// variable is unset.
func FromEnv() (*Config, bool, error) {
	payload := os.Getenv(EnvPayload)
	if payload == "" {
		return nil, false, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, true, fmt.Errorf("decode %s: %w", EnvPayload, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return errors.New("world dimensions must be positive")
	}
	if _, err := noise.ParseBasis(string(c.Noise.Basis)); err != nil {
		return fmt.Errorf("noise.basis: %w", err)
	}
	if c.Noise.Scale <= 0 {
		return errors.New("noise.scale must be positive")
	}
	channels := []struct {
		name string
		ch   noise.ChannelConfig
	}{
		{"altitude", c.Noise.Altitude},
		{"temperature", c.Noise.Temperature},
		{"vegetation", c.Noise.Vegetation},
		{"beach", c.Noise.Beach},
		{"cliff", c.Noise.Cliff},
		{"lake", c.Noise.Lake},
	}
	for _, entry := range channels {
		if err := validateChannel(entry.ch); err != nil {
			return fmt.Errorf("noise.%s: %w", entry.name, err)
		}
	}
	if c.Rivers.Chance < 0 || c.Rivers.Chance > 1 {
		return errors.New("rivers.chance must be within [0,1]")
	}
	if c.Rivers.MaxUphill < 0 {
		return errors.New("rivers.max_uphill cannot be negative")
	}
	if _, err := world.ParseDescentMode(c.Rivers.Descent); err != nil {
		return fmt.Errorf("rivers.descent: %w", err)
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return errors.New("api.port must be within [0,65535]")
	}
	if c.API.RegeneratePerHour < 0 {
		return errors.New("api.regenerate_per_hour cannot be negative")
	}
	return nil
}

func validateChannel(ch noise.ChannelConfig) error {
	switch ch.Kind {
	case noise.KindFbm, noise.KindRidged:
	default:
		return fmt.Errorf("unknown kind %q", ch.Kind)
	}
	if ch.Frequency <= 0 {
		return errors.New("frequency must be positive")
	}
	if ch.Octaves < 0 || ch.Roughness < 0 {
		return errors.New("octaves and roughness cannot be negative")
	}
	if ch.Exponent < 0 {
		return errors.New("exponent cannot be negative")
	}
	return nil
}

// GenConfig converts the file settings into generator parameters.
func (c *Config) GenConfig() world.GenConfig {
	descent, _ := world.ParseDescentMode(c.Rivers.Descent)
	return world.GenConfig{
		Width:  c.World.Width,
		Height: c.World.Height,
		Seed:   c.World.Seed,
		Noise:  c.Noise,
		Rivers: world.RiverConfig{
			Chance:    c.Rivers.Chance,
			MaxUphill: c.Rivers.MaxUphill,
			Descent:   descent,
		},
	}
}
