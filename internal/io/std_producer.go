package io

import (
	"sync"

	"github.com/ecopia-map/mesh_tiler/internal/octree"
	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
)

// StandardProducer emits a single root tile holding every point of the cloud
type StandardProducer struct {
	basePath string
}

func NewStandardProducer(basePath string) *StandardProducer {
	return &StandardProducer{
		basePath: basePath,
	}
}

// Submits the WorkUnits of the cloud to the provided work channel and closes it when all
// work is submitted.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup, cloud *pointcloud.PointCloud) {
	defer wg.Done()
	defer close(work)

	metadata := cloud.Metadata()
	work <- &WorkUnit{
		Key:      octree.RootKey(),
		Points:   cloud.Points(),
		Layout:   RecordLayout{HasColors: metadata.HasColors, HasNormals: metadata.HasNormals},
		BasePath: p.basePath,
	}
}
