package io

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ecopia-map/mesh_tiler/internal/octree"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/ecopia-map/mesh_tiler/tools"
	"github.com/golang/glog"
	"go.uber.org/multierr"
)

const DataFolder = "ept-data"

type StandardConsumer struct{}

func NewStandardConsumer() *StandardConsumer {
	return &StandardConsumer{}
}

// Returns the path of the binary tile of key below basePath
func TilePath(basePath string, key octree.Key) string {
	return filepath.Join(basePath, DataFolder, key.String()+".bin")
}

// Continually consumes WorkUnits submitted to a work channel producing the corresponding binary tiles.
// Continues working until the work channel is closed. The first error is submitted to the error
// channel, remaining work units are drained without being written.
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, errchan chan error, waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()

	failed := false
	for work := range workchan {
		if failed {
			continue
		}
		if err := c.doWork(work); err != nil {
			glog.Errorf("tile %s: %v", work.Key, err)
			errchan <- err
			failed = true
		}
	}
}

func (c *StandardConsumer) doWork(workUnit *WorkUnit) error {
	folder := filepath.Join(workUnit.BasePath, DataFolder)
	if err := tools.CreateDirectoryIfDoesNotExist(folder); err != nil {
		return tiler.Fail(tiler.ErrWrite, err, "create %s", folder)
	}

	content := EncodeTile(workUnit.Points, workUnit.Layout)
	glog.V(2).Infof("tile %s: %d points, %d bytes", workUnit.Key, len(workUnit.Points), len(content))

	return writeFile(TilePath(workUnit.BasePath, workUnit.Key), content)
}

func writeFile(path string, content []byte) (err error) {
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
