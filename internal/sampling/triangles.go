package sampling

import "github.com/go-gl/mathgl/mgl32"

// Full triangles of an index list together with their selection weights
type triangleSet struct {
	triangles [][3]uint32
	weights   []float32
	total     float32
}

func newTriangleSet(vertices []mgl32.Vec3, indices []uint32, strategy Strategy) triangleSet {
	count := len(indices) / 3
	set := triangleSet{
		triangles: make([][3]uint32, count),
		weights:   make([]float32, count),
	}

	for i := 0; i < count; i++ {
		tri := [3]uint32{indices[i*3], indices[i*3+1], indices[i*3+2]}
		set.triangles[i] = tri

		weight := float32(1.0)
		if strategy == AreaWeighted {
			weight = triangleArea(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]])
		}
		set.weights[i] = weight
		set.total += weight
	}

	return set
}

// pick walks the weights in order subtracting each from draw and returns the first triangle
// where the remainder drops to zero or below. When it never does (total weight 0, or
// rounding at the very end) the first triangle is returned.
func (s triangleSet) pick(draw float32) int {
	remainder := draw
	for i, weight := range s.weights {
		remainder -= weight
		if remainder <= 0 {
			return i
		}
	}
	return 0
}

func triangleArea(v0, v1, v2 mgl32.Vec3) float32 {
	return v1.Sub(v0).Cross(v2.Sub(v0)).Len() * 0.5
}
