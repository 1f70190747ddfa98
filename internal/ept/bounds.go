package ept

import (
	"math"
	"runtime"
	"sync"

	"github.com/ecopia-map/mesh_tiler/internal/data"
	"github.com/ecopia-map/mesh_tiler/internal/geometry"
	"github.com/go-gl/mathgl/mgl32"
)

// padding added on every side, as a fraction of the box diagonal
const boundsPadding = 0.01

type extent struct {
	min, max mgl32.Vec3
}

func emptyExtent() extent {
	return extent{
		min: mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32},
		max: mgl32.Vec3{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32},
	}
}

func (e extent) merge(other extent) extent {
	for axis := 0; axis < 3; axis++ {
		e.min[axis] = min(e.min[axis], other.min[axis])
		e.max[axis] = max(e.max[axis], other.max[axis])
	}
	return e
}

func (e extent) add(p mgl32.Vec3) extent {
	return e.merge(extent{min: p, max: p})
}

// ComputeBounds returns the padded box of the points as [minx, miny, minz, maxx, maxy, maxz].
// The reduction runs over one chunk per CPU in float32, the padding is 1% of the diagonal.
// An empty slice gives six zeros.
func ComputeBounds(points []data.Point) [6]float64 {
	if len(points) == 0 {
		return [6]float64{}
	}

	numWorkers := runtime.NumCPU()
	chunkSize := (len(points) + numWorkers - 1) / numWorkers
	partials := make([]extent, (len(points)+chunkSize-1)/chunkSize)

	var waitGroup sync.WaitGroup
	for chunk := range partials {
		waitGroup.Add(1)
		go func(chunk int) {
			defer waitGroup.Done()
			start := chunk * chunkSize
			end := min(start+chunkSize, len(points))
			e := emptyExtent()
			for _, p := range points[start:end] {
				e = e.add(p.Vec3())
			}
			partials[chunk] = e
		}(chunk)
	}
	waitGroup.Wait()

	total := emptyExtent()
	for _, e := range partials {
		total = total.merge(e)
	}

	padding := float64(total.max.Sub(total.min).Len()) * boundsPadding
	return geometry.NewBoundingBoxFromCorners(total.min, total.max).Pad(padding).GetAsArray()
}
