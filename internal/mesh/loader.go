package mesh

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/glog"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	attributePosition = "POSITION"
	attributeNormal   = "NORMAL"
	attributeColor    = "COLOR_0"
)

// Loader reads a model file into a Buffer
type Loader interface {
	Load(path string, wantNormals, wantColors bool) (*Buffer, error)
}

type GLTFLoader struct{}

func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{}
}

func (l *GLTFLoader) Load(path string, wantNormals, wantColors bool) (*Buffer, error) {
	return Load(path, wantNormals, wantColors)
}

// Returns true if the file name has an extension the importer can read
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return true
	}
	return false
}

// Load imports the model at path. Normals and colors are read only when requested.
func Load(path string, wantNormals, wantColors bool) (*Buffer, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, tiler.Fail(tiler.ErrFileRead, err, "load %s", path)
	}
	if !IsSupported(path) {
		return nil, tiler.Fail(tiler.ErrUnsupportedFormat, nil, "load %s: extension %q", path, filepath.Ext(path))
	}
	return LoadGLTF(path, wantNormals, wantColors)
}

// LoadGLTF reads a .gltf or .glb file and concatenates the primitives of every mesh into a
// single Buffer.
func LoadGLTF(path string, wantNormals, wantColors bool) (*Buffer, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, tiler.Fail(tiler.ErrUnsupportedFormat, err, "open gltf %s", path)
	}

	var parts []*Buffer
	anyNormals, anyColors := false, false
	for meshIdx, m := range doc.Meshes {
		for primIdx, primitive := range m.Primitives {
			part, err := readPrimitive(doc, primitive, wantNormals, wantColors)
			if err != nil {
				return nil, tiler.Fail(tiler.ErrMalformedMesh, err, "%s: mesh %d primitive %d", filepath.Base(path), meshIdx, primIdx)
			}
			if part == nil {
				continue
			}
			anyNormals = anyNormals || part.HasNormals()
			anyColors = anyColors || part.HasColors()
			parts = append(parts, part)
		}
	}

	buffer := &Buffer{}
	for _, part := range parts {
		if anyNormals {
			part.padNormals()
		}
		if anyColors {
			part.padColors()
		}
		buffer.Append(part)
	}

	if len(buffer.Vertices) == 0 {
		return nil, tiler.Fail(tiler.ErrNoMeshData, nil, "load %s", filepath.Base(path))
	}
	if err := buffer.Validate(); err != nil {
		return nil, err
	}

	glog.V(2).Infof("loaded %s: %d meshes, %d vertices, %d triangles, normals %t, colors %t",
		filepath.Base(path), len(doc.Meshes), len(buffer.Vertices), buffer.NumTriangles(), buffer.HasNormals(), buffer.HasColors())
	return buffer, nil
}

// reads one primitive, returns nil when it carries no positions
func readPrimitive(doc *gltf.Document, primitive *gltf.Primitive, wantNormals, wantColors bool) (*Buffer, error) {
	positionIdx, ok := primitive.Attributes[attributePosition]
	if !ok {
		return nil, nil
	}
	accessor, err := accessorAt(doc, positionIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, accessor, nil)
	if err != nil {
		return nil, err
	}

	part := &Buffer{Vertices: toVec3(positions)}

	if wantNormals {
		if idx, ok := primitive.Attributes[attributeNormal]; ok {
			if accessor, err = accessorAt(doc, idx); err != nil {
				return nil, err
			}
			normals, err := modeler.ReadNormal(doc, accessor, nil)
			if err != nil {
				return nil, err
			}
			part.Normals = toVec3(normals)
		}
	}

	if wantColors {
		if idx, ok := primitive.Attributes[attributeColor]; ok {
			if accessor, err = accessorAt(doc, idx); err != nil {
				return nil, err
			}
			if part.Colors, err = readColors(doc, accessor); err != nil {
				return nil, err
			}
		}
	}

	if primitive.Indices != nil {
		if accessor, err = accessorAt(doc, *primitive.Indices); err != nil {
			return nil, err
		}
		if part.Indices, err = modeler.ReadIndices(doc, accessor, nil); err != nil {
			return nil, err
		}
	}

	return part, nil
}

func accessorAt(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, tiler.Fail(tiler.ErrMalformedMesh, nil, "accessor %d out of range", idx)
	}
	return doc.Accessors[idx], nil
}

// readColors converts any COLOR_0 layout to float RGB, alpha is dropped
func readColors(doc *gltf.Document, accessor *gltf.Accessor) ([]mgl32.Vec3, error) {
	data, err := modeler.ReadAccessor(doc, accessor, nil)
	if err != nil {
		return nil, err
	}

	var colors []mgl32.Vec3
	switch values := data.(type) {
	case [][3]float32:
		colors = toVec3(values)
	case [][4]float32:
		colors = make([]mgl32.Vec3, len(values))
		for i, c := range values {
			colors[i] = mgl32.Vec3{c[0], c[1], c[2]}
		}
	case [][3]uint8:
		colors = make([]mgl32.Vec3, len(values))
		for i, c := range values {
			colors[i] = mgl32.Vec3{unorm8(c[0]), unorm8(c[1]), unorm8(c[2])}
		}
	case [][4]uint8:
		colors = make([]mgl32.Vec3, len(values))
		for i, c := range values {
			colors[i] = mgl32.Vec3{unorm8(c[0]), unorm8(c[1]), unorm8(c[2])}
		}
	case [][3]uint16:
		colors = make([]mgl32.Vec3, len(values))
		for i, c := range values {
			colors[i] = mgl32.Vec3{unorm16(c[0]), unorm16(c[1]), unorm16(c[2])}
		}
	case [][4]uint16:
		colors = make([]mgl32.Vec3, len(values))
		for i, c := range values {
			colors[i] = mgl32.Vec3{unorm16(c[0]), unorm16(c[1]), unorm16(c[2])}
		}
	default:
		return nil, tiler.Fail(tiler.ErrUnsupportedFormat, nil, "color accessor of type %T", data)
	}
	return colors, nil
}

func toVec3(values [][3]float32) []mgl32.Vec3 {
	out := make([]mgl32.Vec3, len(values))
	for i, v := range values {
		out[i] = mgl32.Vec3(v)
	}
	return out
}

func unorm8(v uint8) float32 {
	return float32(v) / 255
}

func unorm16(v uint16) float32 {
	return float32(v) / 65535
}
