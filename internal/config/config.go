// Package config loads the sampling profile: defaults, then an optional YAML file, then
// command line overrides.
package config

import (
	"os"

	"github.com/ecopia-map/mesh_tiler/internal/sampling"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of a sampling run that can live in a profile file.
type Config struct {
	Sampling SamplingConfig `yaml:"sampling"`
	Output   OutputConfig   `yaml:"output"`
}

// SamplingConfig mirrors sampling.SamplingConfig in a YAML friendly shape.
type SamplingConfig struct {
	PointCount     int     `yaml:"point_count"`
	Strategy       string  `yaml:"strategy"`
	IncludeNormals bool    `yaml:"include_normals"`
	IncludeColors  bool    `yaml:"include_colors"`
	Scale          float32 `yaml:"scale"`
	Jitter         float32 `yaml:"jitter"`
	Seed           uint64  `yaml:"seed"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
}

// Overrides carries values given on the command line. Nil fields were not set and keep the
// profile value.
type Overrides struct {
	PointCount     *int
	Strategy       *string
	IncludeNormals *bool
	IncludeColors  *bool
	Scale          *float32
	Jitter         *float32
	Seed           *uint64
	Format         *string
}

// Default returns the built-in profile.
func Default() *Config {
	defaults := sampling.DefaultConfig()
	return &Config{
		Sampling: SamplingConfig{
			PointCount:     defaults.PointCount(),
			Strategy:       defaults.Strategy().String(),
			IncludeNormals: defaults.IncludeNormals(),
			IncludeColors:  defaults.IncludeColors(),
			Scale:          defaults.Scale(),
			Jitter:         defaults.Jitter(),
			Seed:           defaults.Seed(),
		},
		Output: OutputConfig{
			Format: tiler.FormatJSON.String(),
		},
	}
}

// Load builds the profile with priority defaults < file < overrides. An empty path skips the file.
func Load(path string, overrides Overrides) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.apply(overrides)
	return cfg, nil
}

// loadFromFile merges a YAML file into cfg; keys missing from the file keep their value.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return tiler.Fail(tiler.ErrFileRead, err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return tiler.Fail(tiler.ErrSerialization, err, "parse config %s", path)
	}
	return nil
}

func (c *Config) apply(o Overrides) {
	if o.PointCount != nil {
		c.Sampling.PointCount = *o.PointCount
	}
	if o.Strategy != nil {
		c.Sampling.Strategy = *o.Strategy
	}
	if o.IncludeNormals != nil {
		c.Sampling.IncludeNormals = *o.IncludeNormals
	}
	if o.IncludeColors != nil {
		c.Sampling.IncludeColors = *o.IncludeColors
	}
	if o.Scale != nil {
		c.Sampling.Scale = *o.Scale
	}
	if o.Jitter != nil {
		c.Sampling.Jitter = *o.Jitter
	}
	if o.Seed != nil {
		c.Sampling.Seed = *o.Seed
	}
	if o.Format != nil {
		c.Output.Format = *o.Format
	}
}

// SamplingConfig converts the profile into a validated engine configuration.
func (c *Config) SamplingConfig() (sampling.SamplingConfig, error) {
	strategy, err := sampling.ParseStrategy(c.Sampling.Strategy)
	if err != nil {
		return sampling.SamplingConfig{}, err
	}

	config := sampling.NewConfig(c.Sampling.PointCount).
		WithStrategy(strategy).
		WithNormals(c.Sampling.IncludeNormals).
		WithColors(c.Sampling.IncludeColors).
		WithScale(c.Sampling.Scale).
		WithJitter(c.Sampling.Jitter).
		WithSeed(c.Sampling.Seed)
	if err := config.Validate(); err != nil {
		return sampling.SamplingConfig{}, err
	}
	return config, nil
}

func (c *Config) Format() (tiler.Format, error) {
	format := tiler.ParseFormat(c.Output.Format)
	if format == "" {
		return "", errors.Wrapf(tiler.ErrInvalidFormat, "%q, use json or ept", c.Output.Format)
	}
	return format, nil
}
