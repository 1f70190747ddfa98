package sampling

import (
	"math"
	"runtime"
	"sync"

	"github.com/ecopia-map/mesh_tiler/internal/data"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/glog"
)

// per-vertex attribute sources, use* flags are true only when the source has data and the
// config asks for it
type attributes struct {
	normals    []mgl32.Vec3
	colors     []mgl32.Vec3
	useNormals bool
	useColors  bool
}

// Generate turns mesh data into sampled points according to config.
//
// vertices must not be empty. normals and colors are either empty or as long as vertices.
// indices is a flattened triangle list referencing vertices; a trailing partial triangle is
// ignored. Out of range indices panic, callers validate the buffer first.
func Generate(vertices, normals, colors []mgl32.Vec3, indices []uint32, config SamplingConfig) []data.Point {
	attrs := attributes{
		normals:    normals,
		colors:     colors,
		useNormals: len(normals) > 0 && config.includeNormals,
		useColors:  len(colors) > 0 && config.includeColors,
	}

	switch config.strategy {
	case Vertices:
		return sampleVertices(vertices, attrs, config)
	default:
		if len(indices) >= 3 {
			return sampleTriangles(vertices, indices, attrs, config)
		}
		glog.V(2).Infof("sampling: %d indices, falling back to random vertex selection", len(indices))
		return sampleRandomVertices(vertices, attrs, config)
	}
}

func sampleVertices(vertices []mgl32.Vec3, attrs attributes, config SamplingConfig) []data.Point {
	n := config.pointCount
	if n > len(vertices) {
		n = len(vertices)
	}
	if n < 0 {
		n = 0
	}

	points := make([]data.Point, n)
	for i := 0; i < n; i++ {
		points[i] = attrs.vertexPoint(i, vertices[i].Mul(config.scale))
	}
	return points
}

func sampleRandomVertices(vertices []mgl32.Vec3, attrs attributes, config SamplingConfig) []data.Point {
	points := make([]data.Point, max(config.pointCount, 0))
	fill(points, config, func(rng random) data.Point {
		idx := rng.IntN(len(vertices))
		pos := applyJitter(vertices[idx], rng, config)
		return attrs.vertexPoint(idx, pos.Mul(config.scale))
	})
	return points
}

func sampleTriangles(vertices []mgl32.Vec3, indices []uint32, attrs attributes, config SamplingConfig) []data.Point {
	set := newTriangleSet(vertices, indices, config.strategy)
	glog.V(2).Infof("sampling: %d triangles, strategy %s, total weight %f", len(set.triangles), config.strategy, set.total)

	points := make([]data.Point, max(config.pointCount, 0))
	fill(points, config, func(rng random) data.Point {
		tri := set.triangles[set.pick(rng.Float32()*set.total)]

		// square root keeps the distribution uniform over the triangle area
		r1 := float32(math.Sqrt(float64(rng.Float32())))
		r2 := rng.Float32()
		a, b, c := 1-r1, r1*(1-r2), r1*r2

		pos := blend(vertices, tri, a, b, c)
		pos = applyJitter(pos, rng, config)
		point := data.NewPoint(pos.Mul(config.scale))

		if attrs.useNormals {
			point = point.WithNormal(normalize(blend(attrs.normals, tri, a, b, c)))
		}
		if attrs.useColors {
			point = point.WithColor(blend(attrs.colors, tri, a, b, c))
		}
		return point
	})
	return points
}

// vertexPoint builds the point for vertex idx at the already transformed position pos
func (attrs attributes) vertexPoint(idx int, pos mgl32.Vec3) data.Point {
	point := data.NewPoint(pos)
	if attrs.useNormals && idx < len(attrs.normals) {
		point = point.WithNormal(attrs.normals[idx])
	}
	if attrs.useColors && idx < len(attrs.colors) {
		point = point.WithColor(attrs.colors[idx])
	}
	return point
}

// fill samples every slot of points. Unseeded configs share one stream sequentially, seeded
// configs give each index its own stream and split the work across one goroutine per CPU.
func fill(points []data.Point, config SamplingConfig, sample func(rng random) data.Point) {
	if !config.Seeded() {
		rng := newUnseededRandom()
		for i := range points {
			points[i] = sample(rng)
		}
		return
	}

	numWorkers := runtime.NumCPU()
	chunkSize := (len(points) + numWorkers - 1) / numWorkers
	var waitGroup sync.WaitGroup
	for start := 0; start < len(points); start += chunkSize {
		end := min(start+chunkSize, len(points))
		waitGroup.Add(1)
		go func(start, end int) {
			defer waitGroup.Done()
			for i := start; i < end; i++ {
				points[i] = sample(newIndexRandom(config.seed, i))
			}
		}(start, end)
	}
	waitGroup.Wait()
}

func applyJitter(pos mgl32.Vec3, rng random, config SamplingConfig) mgl32.Vec3 {
	if config.jitter <= 0 {
		return pos
	}
	amount := config.jitterAmplitude()
	return mgl32.Vec3{
		pos[0] + symmetric(rng, amount),
		pos[1] + symmetric(rng, amount),
		pos[2] + symmetric(rng, amount),
	}
}

func blend(values []mgl32.Vec3, tri [3]uint32, a, b, c float32) mgl32.Vec3 {
	return values[tri[0]].Mul(a).Add(values[tri[1]].Mul(b)).Add(values[tri[2]].Mul(c))
}

// zero vectors stay zero instead of turning into NaN
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
