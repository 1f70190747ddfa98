package pkg

import (
	"strconv"
	"strings"

	"github.com/ecopia-map/mesh_tiler/internal/data"
	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/ecopia-map/mesh_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/mesh_tiler/tools"
	"github.com/golang/glog"
)

// Merger concatenates JSON point clouds into a single cloud
type Merger struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewMerger(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) tiler.ITiler {
	return &Merger{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

func (m *Merger) RunTiler(opts *tiler.TilerOptions) error {
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	glog.Infoln("Preparing list of files to merge...")
	cloudFiles, err := m.fileFinder.GetPointCloudFilesToMerge(opts)
	if err != nil {
		return tiler.Fail(tiler.ErrFileRead, err, "list point clouds")
	}
	if len(cloudFiles) == 0 {
		return tiler.Fail(tiler.ErrFileRead, nil, "no point cloud to merge")
	}

	merged, err := m.mergeCloudFiles(cloudFiles)
	if err != nil {
		return err
	}
	logCloudSummary(merged)

	if err := exportCloud(merged, opts.Format, opts.Output, m.algorithmManager); err != nil {
		return err
	}

	tools.LogOutput("> done merging", len(cloudFiles), "point clouds")
	return nil
}

// Concatenates the points in file order. The merged source lists every non empty source, comma separated.
func (m *Merger) mergeCloudFiles(cloudFiles []string) (*pointcloud.PointCloud, error) {
	points := make([]data.Point, 0)
	sources := make([]string, 0, len(cloudFiles))

	for i, filePath := range cloudFiles {
		tools.LogOutput("Loading file " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(cloudFiles)) + ", " + filePath)
		cloud, err := pointcloud.LoadFromFile(filePath)
		if err != nil {
			return nil, err
		}
		points = append(points, cloud.Points()...)
		if source := cloud.Metadata().SourceFile; source != "" {
			sources = append(sources, source)
		}
	}

	return pointcloud.New(points, strings.Join(sources, ",")), nil
}
