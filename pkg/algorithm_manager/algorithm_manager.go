package algorithm_manager

import (
	"github.com/ecopia-map/mesh_tiler/internal/ept"
	"github.com/ecopia-map/mesh_tiler/internal/mesh"
	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
)

// TileBuilder writes a point cloud as a tile folder
type TileBuilder interface {
	Build(cloud *pointcloud.PointCloud, dir string) error
}

type AlgorithmManager interface {
	GetMeshLoaderAlgorithm() mesh.Loader
	GetTileBuilderAlgorithm() TileBuilder
}

type StandardAlgorithmManager struct {
	options *tiler.TilerOptions
}

func NewAlgorithmManager(opts *tiler.TilerOptions) AlgorithmManager {
	return &StandardAlgorithmManager{
		options: opts,
	}
}

func (am *StandardAlgorithmManager) GetMeshLoaderAlgorithm() mesh.Loader {
	return mesh.NewGLTFLoader()
}

func (am *StandardAlgorithmManager) GetTileBuilderAlgorithm() TileBuilder {
	builder := ept.NewBuilder()
	if am.options != nil && am.options.MaxPointsPerTile > 0 {
		builder = builder.WithMaxPointsPerTile(am.options.MaxPointsPerTile)
	}
	return builder
}
