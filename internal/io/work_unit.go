package io

import (
	"github.com/ecopia-map/mesh_tiler/internal/data"
	"github.com/ecopia-map/mesh_tiler/internal/octree"
)

// Contains the minimal data needed to produce a single tile, i.e. one binary ept-data/{key}.bin file
type WorkUnit struct {
	Key      octree.Key
	Points   []data.Point
	Layout   RecordLayout
	BasePath string
}
