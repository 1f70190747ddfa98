package data

import "github.com/go-gl/mathgl/mgl32"

// Contains data of a sampled Point, namely X,Y,Z coords plus an optional unit normal
// and an optional R,G,B color with float components (nominally in [0,1])
type Point struct {
	Position [3]float32  `json:"position"`
	Normal   *[3]float32 `json:"normal,omitempty"`
	Color    *[3]float32 `json:"color,omitempty"`
}

// Builds a new Point without normal and color
func NewPoint(position mgl32.Vec3) Point {
	return Point{Position: position}
}

// Returns a copy of the point carrying the given normal
func (p Point) WithNormal(normal mgl32.Vec3) Point {
	n := [3]float32(normal)
	p.Normal = &n
	return p
}

// Returns a copy of the point carrying the given color
func (p Point) WithColor(color mgl32.Vec3) Point {
	c := [3]float32(color)
	p.Color = &c
	return p
}

func (p Point) HasNormal() bool {
	return p.Normal != nil
}

func (p Point) HasColor() bool {
	return p.Color != nil
}

func (p Point) Vec3() mgl32.Vec3 {
	return mgl32.Vec3(p.Position)
}
