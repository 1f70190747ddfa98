package io

import (
	"sync"

	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
)

type Producer interface {
	Produce(work chan *WorkUnit, wg *sync.WaitGroup, cloud *pointcloud.PointCloud)
}

type Consumer interface {
	Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup)
}
