package geometry

import "github.com/go-gl/mathgl/mgl32"

// Axis aligned box with precomputed mid point, in the same frame as the sampled points
type BoundingBox struct {
	Xmin, Xmax, Xmid float64
	Ymin, Ymax, Ymid float64
	Zmin, Zmax, Zmid float64
}

// Constructor to properly initialize the boundingBox struct computing the mids
func NewBoundingBox(Xmin, Xmax, Ymin, Ymax, Zmin, Zmax float64) *BoundingBox {
	return &BoundingBox{
		Xmin: Xmin,
		Xmax: Xmax,
		Xmid: (Xmin + Xmax) / 2,
		Ymin: Ymin,
		Ymax: Ymax,
		Ymid: (Ymin + Ymax) / 2,
		Zmin: Zmin,
		Zmax: Zmax,
		Zmid: (Zmin + Zmax) / 2,
	}
}

// Builds a box from its min and max corners
func NewBoundingBoxFromCorners(min, max mgl32.Vec3) *BoundingBox {
	return NewBoundingBox(
		float64(min[0]), float64(max[0]),
		float64(min[1]), float64(max[1]),
		float64(min[2]), float64(max[2]),
	)
}

// Builds a box from the 6 element array form [minx, miny, minz, maxx, maxy, maxz]
func NewBoundingBoxFromArray(bounds [6]float64) *BoundingBox {
	return NewBoundingBox(bounds[0], bounds[3], bounds[1], bounds[4], bounds[2], bounds[5])
}

// Computes the bounding box of the given octant of the parent box. Octant bit 0 selects the
// upper x half, bit 1 the upper y half, bit 2 the upper z half.
func NewBoundingBoxFromParent(parent *BoundingBox, octant *uint8) *BoundingBox {
	var xMin, xMax, yMin, yMax, zMin, zMax float64
	switch *octant {
	case 0, 2, 4, 6:
		xMin, xMax = parent.Xmin, parent.Xmid
	default:
		xMin, xMax = parent.Xmid, parent.Xmax
	}
	switch *octant {
	case 0, 1, 4, 5:
		yMin, yMax = parent.Ymin, parent.Ymid
	default:
		yMin, yMax = parent.Ymid, parent.Ymax
	}
	if *octant < 4 {
		zMin, zMax = parent.Zmin, parent.Zmid
	} else {
		zMin, zMax = parent.Zmid, parent.Zmax
	}
	return NewBoundingBox(xMin, xMax, yMin, yMax, zMin, zMax)
}

// Returns the box as [minx, miny, minz, maxx, maxy, maxz]
func (b *BoundingBox) GetAsArray() [6]float64 {
	return [6]float64{b.Xmin, b.Ymin, b.Zmin, b.Xmax, b.Ymax, b.Zmax}
}

// Returns a copy of the box grown by amount on every side of every axis
func (b *BoundingBox) Pad(amount float64) *BoundingBox {
	return NewBoundingBox(
		b.Xmin-amount, b.Xmax+amount,
		b.Ymin-amount, b.Ymax+amount,
		b.Zmin-amount, b.Zmax+amount,
	)
}

// Checks whether the given coordinates fall inside the box, borders included
func (b *BoundingBox) Contains(x, y, z float64) bool {
	return x >= b.Xmin && x <= b.Xmax &&
		y >= b.Ymin && y <= b.Ymax &&
		z >= b.Zmin && z <= b.Zmax
}
