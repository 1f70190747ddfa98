package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.viam.com/test"
)

// writes a GLB with two triangle primitives; only the first one carries normals and colors
func writeTwoPrimitiveModel(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()

	firstPositions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	firstNormals := modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	firstColors := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, [][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}})
	firstIndices := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	secondPositions := modeler.WritePosition(doc, [][3]float32{{5, 5, 5}, {6, 5, 5}, {5, 6, 5}})
	secondIndices := modeler.WriteIndices(doc, []uint16{0, 2, 1})

	doc.Meshes = []*gltf.Mesh{{
		Name: "model",
		Primitives: []*gltf.Primitive{
			{
				Indices: gltf.Index(firstIndices),
				Attributes: gltf.Attribute{
					attributePosition: firstPositions,
					attributeNormal:   firstNormals,
					attributeColor:    firstColors,
				},
			},
			{
				Indices:    gltf.Index(secondIndices),
				Attributes: gltf.Attribute{attributePosition: secondPositions},
			},
		},
	}}

	path := filepath.Join(t.TempDir(), "model.glb")
	test.That(t, gltf.SaveBinary(doc, path), test.ShouldBeNil)
	return path
}

func TestLoadConcatenatesPrimitives(t *testing.T) {
	buffer, err := Load(writeTwoPrimitiveModel(t), true, true)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, buffer.Vertices, test.ShouldHaveLength, 6)
	test.That(t, buffer.Vertices[3], test.ShouldResemble, mgl32.Vec3{5, 5, 5})
	test.That(t, buffer.Indices, test.ShouldResemble, []uint32{0, 1, 2, 3, 5, 4})
	test.That(t, buffer.NumTriangles(), test.ShouldEqual, 2)

	// the second primitive is padded
	test.That(t, buffer.Normals, test.ShouldHaveLength, 6)
	test.That(t, buffer.Normals[0], test.ShouldResemble, mgl32.Vec3{0, 0, 1})
	test.That(t, buffer.Normals[4], test.ShouldResemble, mgl32.Vec3{0, 0, 0})
	test.That(t, buffer.Colors, test.ShouldHaveLength, 6)
	test.That(t, buffer.Colors[0], test.ShouldResemble, mgl32.Vec3{1, 0, 0})
	test.That(t, buffer.Colors[5], test.ShouldResemble, mgl32.Vec3{1, 1, 1})
}

func TestLoadSkipsUnrequestedAttributes(t *testing.T) {
	buffer, err := Load(writeTwoPrimitiveModel(t), false, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, buffer.HasNormals(), test.ShouldBeFalse)
	test.That(t, buffer.HasColors(), test.ShouldBeFalse)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.glb"), true, true)
	test.That(t, errors.Is(err, tiler.ErrFileRead), test.ShouldBeTrue)

	objPath := filepath.Join(dir, "model.obj")
	test.That(t, os.WriteFile(objPath, []byte("v 0 0 0\n"), 0o644), test.ShouldBeNil)
	_, err = Load(objPath, true, true)
	test.That(t, errors.Is(err, tiler.ErrUnsupportedFormat), test.ShouldBeTrue)

	garbage := filepath.Join(dir, "broken.glb")
	test.That(t, os.WriteFile(garbage, []byte("not a model"), 0o644), test.ShouldBeNil)
	_, err = Load(garbage, true, true)
	test.That(t, errors.Is(err, tiler.ErrUnsupportedFormat), test.ShouldBeTrue)

	empty := filepath.Join(dir, "empty.glb")
	test.That(t, gltf.SaveBinary(gltf.NewDocument(), empty), test.ShouldBeNil)
	_, err = Load(empty, true, true)
	test.That(t, errors.Is(err, tiler.ErrNoMeshData), test.ShouldBeTrue)
}

func TestBufferValidate(t *testing.T) {
	valid := &Buffer{
		Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:  []uint32{0, 1, 2},
	}
	test.That(t, valid.Validate(), test.ShouldBeNil)

	for name, buffer := range map[string]*Buffer{
		"short normals": {Vertices: valid.Vertices, Normals: []mgl32.Vec3{{0, 0, 1}}},
		"long colors":   {Vertices: valid.Vertices, Colors: make([]mgl32.Vec3, 4)},
		"bad index":     {Vertices: valid.Vertices, Indices: []uint32{0, 1, 3}},
	} {
		t.Run(name, func(t *testing.T) {
			test.That(t, errors.Is(buffer.Validate(), tiler.ErrMalformedMesh), test.ShouldBeTrue)
		})
	}

	test.That(t, errors.Is((&Buffer{}).Validate(), tiler.ErrNoMeshData), test.ShouldBeTrue)
}

func TestBufferAppendOffsetsIndices(t *testing.T) {
	buffer := &Buffer{Vertices: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}}, Indices: []uint32{0, 1, 1}}
	buffer.Append(&Buffer{Vertices: []mgl32.Vec3{{2, 0, 0}}, Indices: []uint32{0, 0, 0}})
	test.That(t, buffer.Vertices, test.ShouldHaveLength, 3)
	test.That(t, buffer.Indices, test.ShouldResemble, []uint32{0, 1, 1, 2, 2, 2})
}

func TestAccessorAtRange(t *testing.T) {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}})

	accessor, err := accessorAt(doc, positions)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, accessor, test.ShouldEqual, doc.Accessors[positions])

	_, err = accessorAt(doc, positions+1)
	test.That(t, errors.Is(err, tiler.ErrMalformedMesh), test.ShouldBeTrue)
}

func TestLoadRejectsDanglingAccessor(t *testing.T) {
	doc := gltf.NewDocument()
	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name: "dangling",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(positions + 7),
			Attributes: gltf.Attribute{attributePosition: positions},
		}},
	}}
	path := filepath.Join(t.TempDir(), "dangling.glb")
	test.That(t, gltf.SaveBinary(doc, path), test.ShouldBeNil)

	_, err := Load(path, false, false)
	test.That(t, errors.Is(err, tiler.ErrMalformedMesh), test.ShouldBeTrue)
}
