package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/mesh_tiler/internal/sampling"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	test.That(t, os.WriteFile(path, []byte(content), 0o644), test.ShouldBeNil)
	return path
}

func TestDefaultProfile(t *testing.T) {
	cfg, err := Load("", Overrides{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg, test.ShouldResemble, Default())

	samplingConfig, err := cfg.SamplingConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, samplingConfig, test.ShouldResemble, sampling.DefaultConfig())

	format, err := cfg.Format()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, format, test.ShouldEqual, tiler.FormatJSON)
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeProfile(t, `
sampling:
  point_count: 500
  strategy: uniform
  include_colors: false
  jitter: 0.25
output:
  format: ept
`)
	cfg, err := Load(path, Overrides{})
	test.That(t, err, test.ShouldBeNil)

	test.That(t, cfg.Sampling.PointCount, test.ShouldEqual, 500)
	test.That(t, cfg.Sampling.Strategy, test.ShouldEqual, "uniform")
	test.That(t, cfg.Sampling.IncludeColors, test.ShouldBeFalse)
	// untouched keys keep the defaults
	test.That(t, cfg.Sampling.IncludeNormals, test.ShouldBeTrue)
	test.That(t, cfg.Sampling.Scale, test.ShouldEqual, float32(1))

	format, err := cfg.Format()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, format, test.ShouldEqual, tiler.FormatEPT)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := writeProfile(t, "sampling:\n  point_count: 500\n  strategy: uniform\n")
	points := 42
	strategy := "vertices"
	jitter := float32(3)
	cfg, err := Load(path, Overrides{PointCount: &points, Strategy: &strategy, Jitter: &jitter})
	test.That(t, err, test.ShouldBeNil)

	samplingConfig, err := cfg.SamplingConfig()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, samplingConfig.PointCount(), test.ShouldEqual, 42)
	test.That(t, samplingConfig.Strategy(), test.ShouldEqual, sampling.Vertices)
	test.That(t, samplingConfig.Jitter(), test.ShouldEqual, float32(1))
}

func TestInvalidProfiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), Overrides{})
	test.That(t, errors.Is(err, tiler.ErrFileRead), test.ShouldBeTrue)

	_, err = Load(writeProfile(t, "sampling: [oops"), Overrides{})
	test.That(t, errors.Is(err, tiler.ErrSerialization), test.ShouldBeTrue)

	cfg := Default()
	cfg.Sampling.PointCount = 0
	_, err = cfg.SamplingConfig()
	test.That(t, errors.Is(err, tiler.ErrInvalidPointCount), test.ShouldBeTrue)

	cfg = Default()
	cfg.Sampling.Strategy = "random"
	_, err = cfg.SamplingConfig()
	test.That(t, errors.Is(err, tiler.ErrInvalidStrategy), test.ShouldBeTrue)

	cfg = Default()
	cfg.Output.Format = "las"
	_, err = cfg.Format()
	test.That(t, errors.Is(err, tiler.ErrInvalidFormat), test.ShouldBeTrue)
}
