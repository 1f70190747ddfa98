package ept

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ecopia-map/mesh_tiler/internal/data"
	"github.com/ecopia-map/mesh_tiler/internal/io"
	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func cornerPoints() []data.Point {
	return []data.Point{
		data.NewPoint(mgl32.Vec3{0, 0, 0}),
		data.NewPoint(mgl32.Vec3{1, 0, 0}),
		data.NewPoint(mgl32.Vec3{0, 1, 0}),
		data.NewPoint(mgl32.Vec3{0, 0, 1}),
	}
}

func readHierarchy(t *testing.T, dir string) map[string]int64 {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, "ept-hierarchy", "0-0-0-0.json"))
	test.That(t, err, test.ShouldBeNil)
	var hierarchy map[string]int64
	test.That(t, json.Unmarshal(content, &hierarchy), test.ShouldBeNil)
	return hierarchy
}

func TestComputeBoundsPadsByDiagonal(t *testing.T) {
	bounds := ComputeBounds(cornerPoints())
	padding := 0.01 * math.Sqrt(3)
	expected := [6]float64{-padding, -padding, -padding, 1 + padding, 1 + padding, 1 + padding}
	for i := range bounds {
		test.That(t, bounds[i], test.ShouldAlmostEqual, expected[i], 1e-6)
	}
}

func TestComputeBoundsMatchesSequentialScan(t *testing.T) {
	points := make([]data.Point, 5003)
	for i := range points {
		f := float32(i)
		points[i] = data.NewPoint(mgl32.Vec3{f - 2500, float32(math.Sin(float64(i))) * 10, -f})
	}
	bounds := ComputeBounds(points)
	diagonal := mgl32.Vec3{5002, 20, 5002}.Len()
	test.That(t, bounds[0], test.ShouldAlmostEqual, -2500-float64(diagonal)*0.01, 0.01)
	test.That(t, bounds[3], test.ShouldAlmostEqual, 2502+float64(diagonal)*0.01, 0.01)
	test.That(t, bounds[2], test.ShouldAlmostEqual, -5002-float64(diagonal)*0.01, 0.01)
	test.That(t, bounds[5], test.ShouldAlmostEqual, float64(diagonal)*0.01, 0.01)
}

func TestComputeBoundsEmpty(t *testing.T) {
	test.That(t, ComputeBounds(nil), test.ShouldResemble, [6]float64{})
}

func TestSchemaOrder(t *testing.T) {
	names := func(schema []Dimension) string {
		parts := make([]string, len(schema))
		for i, d := range schema {
			parts[i] = d.Name
		}
		return strings.Join(parts, ",")
	}
	test.That(t, names(BuildSchema(io.RecordLayout{})), test.ShouldEqual, "X,Y,Z")
	test.That(t, names(BuildSchema(io.RecordLayout{HasColors: true, HasNormals: true})), test.ShouldEqual,
		"X,Y,Z,Red,Green,Blue,NormalX,NormalY,NormalZ")
	test.That(t, names(BuildSchema(io.RecordLayout{HasNormals: true})), test.ShouldEqual, "X,Y,Z,NormalX,NormalY,NormalZ")

	schema := BuildSchema(io.RecordLayout{HasColors: true})
	test.That(t, schema[3], test.ShouldResemble, Dimension{Name: "Red", Type: "unsigned", Size: 1})
	test.That(t, schema[0], test.ShouldResemble, Dimension{Name: "X", Type: "floating", Size: 4})
}

func TestBuildWritesLayout(t *testing.T) {
	for _, tc := range []struct {
		name       string
		decorate   func(data.Point) data.Point
		recordSize int
	}{
		{"positions only", func(p data.Point) data.Point { return p }, 12},
		{"with colors", func(p data.Point) data.Point { return p.WithColor(mgl32.Vec3{0.5, 0.5, 0.5}) }, 15},
		{"with colors and normals", func(p data.Point) data.Point {
			return p.WithColor(mgl32.Vec3{1, 1, 1}).WithNormal(mgl32.Vec3{0, 0, 1})
		}, 27},
	} {
		t.Run(tc.name, func(t *testing.T) {
			points := cornerPoints()
			for i := range points {
				points[i] = tc.decorate(points[i])
			}
			dir := filepath.Join(t.TempDir(), "ept")
			test.That(t, NewBuilder().Build(pointcloud.New(points, "corners"), dir), test.ShouldBeNil)

			tile, err := os.ReadFile(filepath.Join(dir, "ept-data", "0-0-0-0.bin"))
			test.That(t, err, test.ShouldBeNil)
			test.That(t, tile, test.ShouldHaveLength, len(points)*tc.recordSize)

			metadata, err := ReadMetadata(dir)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, metadata.RecordSize(), test.ShouldEqual, tc.recordSize)
			test.That(t, metadata.Points, test.ShouldEqual, uint64(4))
			test.That(t, metadata.Bounds, test.ShouldResemble, metadata.BoundsConforming)
			test.That(t, readHierarchy(t, dir), test.ShouldResemble, map[string]int64{"0-0-0-0": 4})
		})
	}
}

func TestBuildMetadataFields(t *testing.T) {
	dir := t.TempDir()
	test.That(t, NewBuilder().Build(pointcloud.New(cornerPoints(), ""), dir), test.ShouldBeNil)

	content, err := os.ReadFile(filepath.Join(dir, "ept.json"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(content), test.ShouldStartWith, "{\n  \"bounds\": [")

	var raw map[string]interface{}
	test.That(t, json.Unmarshal(content, &raw), test.ShouldBeNil)
	test.That(t, raw["dataType"], test.ShouldEqual, "binary")
	test.That(t, raw["hierarchyType"], test.ShouldEqual, "json")
	test.That(t, raw["span"], test.ShouldEqual, 128.0)
	test.That(t, raw["version"], test.ShouldEqual, "1.0.0")
	test.That(t, raw["srs"], test.ShouldResemble, map[string]interface{}{
		"authority": "EPSG", "horizontal": "4978", "vertical": "", "wkt": "",
	})
}

func TestBuildEmptyCloud(t *testing.T) {
	dir := t.TempDir()
	test.That(t, NewBuilder().Build(pointcloud.New(nil, ""), dir), test.ShouldBeNil)

	metadata, err := ReadMetadata(dir)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, metadata.Bounds, test.ShouldResemble, [6]float64{})
	test.That(t, metadata.Points, test.ShouldEqual, uint64(0))

	tile, err := os.ReadFile(filepath.Join(dir, "ept-data", "0-0-0-0.bin"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tile, test.ShouldHaveLength, 0)
	test.That(t, readHierarchy(t, dir), test.ShouldResemble, map[string]int64{"0-0-0-0": 0})
}

func TestBuildIsRepeatable(t *testing.T) {
	dir := t.TempDir()
	cloud := pointcloud.New(cornerPoints(), "")
	test.That(t, NewBuilder().Build(cloud, dir), test.ShouldBeNil)
	test.That(t, NewBuilder().WithMaxPointsPerTile(2).Build(cloud, dir), test.ShouldBeNil)
	test.That(t, readHierarchy(t, dir), test.ShouldResemble, map[string]int64{"0-0-0-0": 4})
}

func TestBuildColorBytes(t *testing.T) {
	points := []data.Point{
		data.NewPoint(mgl32.Vec3{0, 0, 0}).WithColor(mgl32.Vec3{0.5, 1.5, -1}),
		data.NewPoint(mgl32.Vec3{1, 1, 1}),
	}
	dir := t.TempDir()
	test.That(t, NewBuilder().Build(pointcloud.New(points, ""), dir), test.ShouldBeNil)

	tile, err := os.ReadFile(filepath.Join(dir, "ept-data", "0-0-0-0.bin"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tile[12:15], test.ShouldResemble, []byte{127, 255, 0})
	test.That(t, tile[27:30], test.ShouldResemble, []byte{255, 255, 255})
}

func TestBuildFailsOnBlockedFolder(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "ept")
	test.That(t, os.WriteFile(blocker, nil, 0o644), test.ShouldBeNil)

	err := NewBuilder().Build(pointcloud.New(cornerPoints(), ""), blocker)
	test.That(t, errors.Is(err, tiler.ErrWrite), test.ShouldBeTrue)
}

func TestMetadataLayout(t *testing.T) {
	layout := io.RecordLayout{HasColors: true}
	metadata := NewMetadata(cornerPoints(), layout)
	got, err := metadata.Layout()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, layout)

	metadata.Schema = metadata.Schema[:4]
	_, err = metadata.Layout()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadMetadataErrors(t *testing.T) {
	_, err := ReadMetadata(t.TempDir())
	test.That(t, errors.Is(err, tiler.ErrFileRead), test.ShouldBeTrue)
}
