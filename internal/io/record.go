package io

import (
	"runtime"
	"sync"

	"github.com/ecopia-map/mesh_tiler/internal/data"
	"github.com/ecopia-map/mesh_tiler/tools"
)

const (
	positionSize = 12
	colorSize    = 3
	normalSize   = 12
)

var (
	defaultColor  = [3]float32{1, 1, 1}
	defaultNormal = [3]float32{0, 0, 0}
)

// RecordLayout describes which attribute blocks follow the position in a point record
type RecordLayout struct {
	HasColors  bool
	HasNormals bool
}

// Size of one point record in bytes
func (l RecordLayout) Size() int {
	size := positionSize
	if l.HasColors {
		size += colorSize
	}
	if l.HasNormals {
		size += normalSize
	}
	return size
}

// EncodeTile lays out points as consecutive records: x,y,z as little endian float32, then
// r,g,b bytes when the layout has colors, then the normal as three float32 when it has normals.
// Points without a color get white, points without a normal get a zero normal.
// Records are independent so chunks are encoded in parallel.
func EncodeTile(points []data.Point, layout RecordLayout) []byte {
	recordSize := layout.Size()
	out := make([]byte, len(points)*recordSize)
	if len(points) == 0 {
		return out
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
				encodeRecord(out[i*recordSize:(i+1)*recordSize], points[i], layout)
			}
		}(start, end)
	}
	waitGroup.Wait()

	return out
}

func encodeRecord(dst []byte, point data.Point, layout RecordLayout) {
	tools.PutFloat32Triplet(dst, point.Position)
	offset := positionSize

	if layout.HasColors {
		color := defaultColor
		if point.HasColor() {
			color = *point.Color
		}
		for i, component := range color {
			dst[offset+i] = ColorByte(component)
		}
		offset += colorSize
	}

	if layout.HasNormals {
		normal := defaultNormal
		if point.HasNormal() {
			normal = *point.Normal
		}
		tools.PutFloat32Triplet(dst[offset:], normal)
	}
}

// ColorByte maps a [0,1] channel to a byte by truncating c*255, saturating outside the range
func ColorByte(c float32) uint8 {
	v := c * 255
	if !(v > 0) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
