package geometry

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"go.viam.com/test"
)

func TestNewBoundingBoxComputesMids(t *testing.T) {
	box := NewBoundingBox(0, 2, -4, 4, 10, 20)
	test.That(t, box.Xmid, test.ShouldEqual, 1.0)
	test.That(t, box.Ymid, test.ShouldEqual, 0.0)
	test.That(t, box.Zmid, test.ShouldEqual, 15.0)
}

func TestArrayForm(t *testing.T) {
	box := NewBoundingBoxFromCorners(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{4, 5, 6})
	test.That(t, box.GetAsArray(), test.ShouldResemble, [6]float64{1, 2, 3, 4, 5, 6})
	test.That(t, NewBoundingBoxFromArray(box.GetAsArray()), test.ShouldResemble, box)
}

func TestOctantBoxes(t *testing.T) {
	parent := NewBoundingBox(0, 2, 0, 2, 0, 2)

	var first uint8 = 0
	test.That(t, NewBoundingBoxFromParent(parent, &first).GetAsArray(), test.ShouldResemble, [6]float64{0, 0, 0, 1, 1, 1})

	var last uint8 = 7
	test.That(t, NewBoundingBoxFromParent(parent, &last).GetAsArray(), test.ShouldResemble, [6]float64{1, 1, 1, 2, 2, 2})

	var upperY uint8 = 2
	test.That(t, NewBoundingBoxFromParent(parent, &upperY).GetAsArray(), test.ShouldResemble, [6]float64{0, 1, 0, 1, 2, 1})
}

func TestPadAndContains(t *testing.T) {
	box := NewBoundingBox(0, 1, 0, 1, 0, 1).Pad(0.5)
	test.That(t, box.GetAsArray(), test.ShouldResemble, [6]float64{-0.5, -0.5, -0.5, 1.5, 1.5, 1.5})
	test.That(t, box.Contains(1.5, -0.5, 0), test.ShouldBeTrue)
	test.That(t, box.Contains(1.6, 0, 0), test.ShouldBeFalse)
}
