package sampling

import (
	"strings"

	"github.com/pkg/errors"
)

type Strategy int

const (
	// Every triangle equally likely regardless of its size
	Uniform Strategy = iota

	// Triangles picked proportionally to their area, gives an even surface density
	AreaWeighted

	// Mesh vertices in order, no randomness. PointCount acts as a ceiling.
	Vertices
)

var ErrUnknownStrategy = errors.New("unknown sampling strategy")

func (s Strategy) String() string {
	switch s {
	case Uniform:
		return "uniform"
	case AreaWeighted:
		return "area-weighted"
	case Vertices:
		return "vertices"
	}
	return "unknown"
}

// Parses a strategy name. Accepts uniform, area-weighted (or area_weighted) and vertices, case insensitive.
func ParseStrategy(value string) (Strategy, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "uniform":
		return Uniform, nil
	case "area-weighted", "area_weighted":
		return AreaWeighted, nil
	case "vertices":
		return Vertices, nil
	}
	return Uniform, errors.Wrapf(ErrUnknownStrategy, "%q, use uniform, area-weighted or vertices", value)
}

const (
	DefaultPointCount = 2000
	DefaultStrategy   = AreaWeighted
)

// SamplingConfig controls point generation. It is a value type: the With* methods return
// modified copies and never touch the receiver.
type SamplingConfig struct {
	pointCount     int
	strategy       Strategy
	includeNormals bool
	includeColors  bool
	scale          float32
	jitter         float32
	seed           uint64
}

// NewConfig returns the default configuration targeting pointCount points.
func NewConfig(pointCount int) SamplingConfig {
	return SamplingConfig{
		pointCount:     pointCount,
		strategy:       DefaultStrategy,
		includeNormals: true,
		includeColors:  true,
		scale:          1.0,
		jitter:         0.0,
	}
}

func DefaultConfig() SamplingConfig {
	return NewConfig(DefaultPointCount)
}

func (c SamplingConfig) WithStrategy(strategy Strategy) SamplingConfig {
	c.strategy = strategy
	return c
}

func (c SamplingConfig) WithNormals(include bool) SamplingConfig {
	c.includeNormals = include
	return c
}

func (c SamplingConfig) WithColors(include bool) SamplingConfig {
	c.includeColors = include
	return c
}

func (c SamplingConfig) WithScale(scale float32) SamplingConfig {
	c.scale = scale
	return c
}

// WithJitter stores jitter clamped to [0,1]. NaN is treated as 0.
func (c SamplingConfig) WithJitter(jitter float32) SamplingConfig {
	c.jitter = clampUnit(jitter)
	return c
}

// WithSeed switches the engine to index-deterministic random streams. Zero restores the
// unseeded sequential behavior.
func (c SamplingConfig) WithSeed(seed uint64) SamplingConfig {
	c.seed = seed
	return c
}

func (c SamplingConfig) PointCount() int { return c.pointCount }
func (c SamplingConfig) Strategy() Strategy { return c.strategy }
func (c SamplingConfig) IncludeNormals() bool { return c.includeNormals }
func (c SamplingConfig) IncludeColors() bool { return c.includeColors }
func (c SamplingConfig) Scale() float32 { return c.scale }
func (c SamplingConfig) Jitter() float32 { return c.jitter }
func (c SamplingConfig) Seed() uint64 { return c.seed }
func (c SamplingConfig) Seeded() bool { return c.seed != 0 }
func (c SamplingConfig) jitterAmplitude() float32 { return c.jitter * 0.1 }

var ErrNonPositivePointCount = errors.New("point count must be positive")

// Validate rejects configurations the engine cannot honor.
func (c SamplingConfig) Validate() error {
	if c.pointCount <= 0 {
		return errors.Wrapf(ErrNonPositivePointCount, "got %d", c.pointCount)
	}
	return nil
}

func clampUnit(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
