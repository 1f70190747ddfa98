package mesh

import (
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
)

// Buffer holds triangulated geometry. Normals and Colors are either empty or exactly as long
// as Vertices. Indices is a flattened triangle list into Vertices.
type Buffer struct {
	Vertices []mgl32.Vec3
	Normals  []mgl32.Vec3
	Colors   []mgl32.Vec3
	Indices  []uint32
}

func (b *Buffer) HasNormals() bool {
	return len(b.Normals) > 0
}

func (b *Buffer) HasColors() bool {
	return len(b.Colors) > 0
}

func (b *Buffer) NumTriangles() int {
	return len(b.Indices) / 3
}

// Append concatenates other to b, shifting its indices past the vertices already in b.
// Attribute arrays are concatenated as they are, callers pad beforehand when mixing
// parts with and without an attribute.
func (b *Buffer) Append(other *Buffer) {
	offset := uint32(len(b.Vertices))
	b.Vertices = append(b.Vertices, other.Vertices...)
	b.Normals = append(b.Normals, other.Normals...)
	b.Colors = append(b.Colors, other.Colors...)
	for _, idx := range other.Indices {
		b.Indices = append(b.Indices, idx+offset)
	}
}

// Validate checks the structural invariants the sampling engine relies on.
func (b *Buffer) Validate() error {
	if len(b.Vertices) == 0 {
		return tiler.Fail(tiler.ErrNoMeshData, nil, "validate buffer")
	}
	if len(b.Normals) != 0 && len(b.Normals) != len(b.Vertices) {
		return tiler.Fail(tiler.ErrMalformedMesh, nil, "validate buffer: %d normals for %d vertices", len(b.Normals), len(b.Vertices))
	}
	if len(b.Colors) != 0 && len(b.Colors) != len(b.Vertices) {
		return tiler.Fail(tiler.ErrMalformedMesh, nil, "validate buffer: %d colors for %d vertices", len(b.Colors), len(b.Vertices))
	}
	for i, idx := range b.Indices {
		if int(idx) >= len(b.Vertices) {
			return tiler.Fail(tiler.ErrMalformedMesh, nil, "validate buffer: index %d at position %d out of range", idx, i)
		}
	}
	return nil
}

// pads missing attributes so a part can be appended next to parts that carry them
func (b *Buffer) padNormals() {
	if len(b.Normals) == 0 {
		b.Normals = make([]mgl32.Vec3, len(b.Vertices))
	}
}

func (b *Buffer) padColors() {
	if len(b.Colors) == 0 {
		b.Colors = make([]mgl32.Vec3, len(b.Vertices))
		for i := range b.Colors {
			b.Colors[i] = mgl32.Vec3{1, 1, 1}
		}
	}
}
