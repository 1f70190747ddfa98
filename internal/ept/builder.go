package ept

import (
	"path/filepath"

	"github.com/ecopia-map/mesh_tiler/internal/io"
	"github.com/ecopia-map/mesh_tiler/internal/octree"
	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/ecopia-map/mesh_tiler/tools"
	"github.com/golang/glog"
)

const DefaultMaxPointsPerTile = 100_000

// Builder writes a point cloud as an EPT folder. Every point goes to the root tile; the
// per-tile limit is reported when exceeded but does not split the tile.
type Builder struct {
	maxPointsPerTile int
}

func NewBuilder() *Builder {
	return &Builder{
		maxPointsPerTile: DefaultMaxPointsPerTile,
	}
}

func (b *Builder) WithMaxPointsPerTile(maxPoints int) *Builder {
	b.maxPointsPerTile = maxPoints
	return b
}

// Build writes ept.json, ept-data/0-0-0-0.bin and ept-hierarchy/0-0-0-0.json below dir.
// Existing folders are reused and files overwritten. A failure leaves whatever was written so far.
func (b *Builder) Build(cloud *pointcloud.PointCloud, dir string) error {
	for _, folder := range []string{dir, filepath.Join(dir, io.DataFolder), filepath.Join(dir, HierarchyFolder)} {
		if err := tools.CreateDirectoryIfDoesNotExist(folder); err != nil {
			return tiler.Fail(tiler.ErrWrite, err, "create %s", folder)
		}
	}

	cloudMetadata := cloud.Metadata()
	layout := io.RecordLayout{HasColors: cloudMetadata.HasColors, HasNormals: cloudMetadata.HasNormals}
	metadata := NewMetadata(cloud.Points(), layout)
	glog.V(2).Infof("ept: %d points, record size %d, bounds %v", metadata.Points, metadata.RecordSize(), metadata.Bounds)

	if b.maxPointsPerTile > 0 && cloud.Len() > b.maxPointsPerTile {
		glog.Warningf("ept: root tile holds %d points, above the %d points per tile limit", cloud.Len(), b.maxPointsPerTile)
	}

	if err := writeJSON(filepath.Join(dir, MetadataFile), metadata); err != nil {
		return err
	}

	producer := io.NewStandardProducer(dir)
	newConsumer := func() io.Consumer { return io.NewStandardConsumer() }
	// a single root tile, one consumer is enough
	if err := io.Export(producer, newConsumer, 1, cloud); err != nil {
		return err
	}

	return b.writeHierarchy(dir, map[octree.Key]int64{octree.RootKey(): int64(cloud.Len())})
}

func (b *Builder) writeHierarchy(dir string, counts map[octree.Key]int64) error {
	hierarchy := make(map[string]int64, len(counts))
	for key, count := range counts {
		hierarchy[key.String()] = count
	}
	return writeJSON(HierarchyPath(dir, octree.RootKey()), hierarchy)
}

func HierarchyPath(dir string, key octree.Key) string {
	return filepath.Join(dir, HierarchyFolder, key.String()+".json")
}
