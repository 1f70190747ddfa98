package sampling

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	test.That(t, config.PointCount(), test.ShouldEqual, 2000)
	test.That(t, config.Strategy(), test.ShouldEqual, AreaWeighted)
	test.That(t, config.IncludeNormals(), test.ShouldBeTrue)
	test.That(t, config.IncludeColors(), test.ShouldBeTrue)
	test.That(t, config.Scale(), test.ShouldEqual, float32(1))
	test.That(t, config.Jitter(), test.ShouldEqual, float32(0))
	test.That(t, config.Seeded(), test.ShouldBeFalse)
}

func TestBuilderReturnsCopies(t *testing.T) {
	base := NewConfig(10)
	changed := base.WithStrategy(Vertices).WithScale(3).WithNormals(false).WithColors(false).WithSeed(5)

	test.That(t, base.Strategy(), test.ShouldEqual, AreaWeighted)
	test.That(t, base.Scale(), test.ShouldEqual, float32(1))
	test.That(t, changed.Strategy(), test.ShouldEqual, Vertices)
	test.That(t, changed.Scale(), test.ShouldEqual, float32(3))
	test.That(t, changed.IncludeNormals(), test.ShouldBeFalse)
	test.That(t, changed.IncludeColors(), test.ShouldBeFalse)
	test.That(t, changed.Seed(), test.ShouldEqual, uint64(5))
}

func TestJitterIsClampedAtConstruction(t *testing.T) {
	for _, tc := range []struct {
		in, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.3, 0.3},
		{1, 1},
		{2.5, 1},
		{float32(math.NaN()), 0},
		{float32(math.Inf(1)), 1},
	} {
		test.That(t, NewConfig(1).WithJitter(tc.in).Jitter(), test.ShouldEqual, tc.want)
	}
}

func TestParseStrategy(t *testing.T) {
	for name, want := range map[string]Strategy{
		"uniform":       Uniform,
		"UNIFORM":       Uniform,
		"area-weighted": AreaWeighted,
		"area_weighted": AreaWeighted,
		" vertices ":    Vertices,
	} {
		got, err := ParseStrategy(name)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, want)
	}

	_, err := ParseStrategy("poisson")
	test.That(t, errors.Is(err, ErrUnknownStrategy), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "poisson")
}

func TestValidate(t *testing.T) {
	test.That(t, NewConfig(1).Validate(), test.ShouldBeNil)
	test.That(t, errors.Is(NewConfig(0).Validate(), ErrNonPositivePointCount), test.ShouldBeTrue)
	test.That(t, errors.Is(NewConfig(-4).Validate(), ErrNonPositivePointCount), test.ShouldBeTrue)
}
