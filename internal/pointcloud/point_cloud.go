package pointcloud

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ecopia-map/mesh_tiler/internal/data"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/ecopia-map/mesh_tiler/tools"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
)

// Metadata is derived from the points when the cloud is built and never changed on its own
type Metadata struct {
	PointCount int        `json:"point_count"`
	BoundsMin  [3]float32 `json:"bounds_min"`
	BoundsMax  [3]float32 `json:"bounds_max"`
	SourceFile string     `json:"source_file"`
	HasNormals bool       `json:"has_normals"`
	HasColors  bool       `json:"has_colors"`
}

// PointCloud is an ordered list of points plus the metadata computed from them
type PointCloud struct {
	points   []data.Point
	metadata Metadata
}

// wire form of a PointCloud
type document struct {
	Points   []data.Point `json:"points"`
	Metadata Metadata     `json:"metadata"`
}

func New(points []data.Point, sourceFile string) *PointCloud {
	if points == nil {
		points = []data.Point{}
	}
	min, max := bounds(points)

	metadata := Metadata{
		PointCount: len(points),
		BoundsMin:  [3]float32(min),
		BoundsMax:  [3]float32(max),
		SourceFile: sourceFile,
	}
	for _, p := range points {
		metadata.HasNormals = metadata.HasNormals || p.HasNormal()
		metadata.HasColors = metadata.HasColors || p.HasColor()
	}

	return &PointCloud{points: points, metadata: metadata}
}

func (pc *PointCloud) Points() []data.Point {
	return pc.points
}

func (pc *PointCloud) Metadata() Metadata {
	return pc.metadata
}

func (pc *PointCloud) Len() int {
	return len(pc.points)
}

// zero vectors for an empty slice
func bounds(points []data.Point) (mgl32.Vec3, mgl32.Vec3) {
	if len(points) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	min, max := points[0].Vec3(), points[0].Vec3()
	for _, p := range points[1:] {
		for axis := 0; axis < 3; axis++ {
			if p.Position[axis] < min[axis] {
				min[axis] = p.Position[axis]
			}
			if p.Position[axis] > max[axis] {
				max[axis] = p.Position[axis]
			}
		}
	}
	return min, max
}

func (pc *PointCloud) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{Points: pc.points, Metadata: pc.metadata})
}

// UnmarshalJSON keeps the stored points and source file, the rest of the metadata is
// recomputed so that it always matches the points.
func (pc *PointCloud) UnmarshalJSON(raw []byte) error {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	*pc = *New(doc.Points, doc.Metadata.SourceFile)
	return nil
}

// SaveToFile writes the cloud as indented JSON, creating the parent folder when needed
func (pc *PointCloud) SaveToFile(path string) (err error) {
	content, err := json.MarshalIndent(pc, "", "  ")
	if err != nil {
		return tiler.Fail(tiler.ErrSerialization, err, "encode point cloud")
	}

	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(path)); err != nil {
		return tiler.Fail(tiler.ErrWrite, err, "create folder for %s", path)
	}

	file, err := os.Create(path)
	if err != nil {
		return tiler.Fail(tiler.ErrWrite, err, "create %s", path)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = multierr.Append(err, tiler.Fail(tiler.ErrWrite, closeErr, "close %s", path))
		}
	}()

	if _, err := file.Write(content); err != nil {
		return tiler.Fail(tiler.ErrWrite, err, "write %s", path)
	}
	return nil
}

func LoadFromFile(path string) (*PointCloud, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, tiler.Fail(tiler.ErrFileRead, err, "read %s", path)
	}

	pc := &PointCloud{}
	if err := json.Unmarshal(content, pc); err != nil {
		return nil, tiler.Fail(tiler.ErrSerialization, err, "decode %s", path)
	}
	return pc, nil
}
