package pkg

import (
	"path/filepath"
	"strconv"

	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
	"github.com/ecopia-map/mesh_tiler/internal/sampling"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/ecopia-map/mesh_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/mesh_tiler/tools"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Sampler turns model files into point clouds and writes them as JSON or EPT
type Sampler struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewSampler(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) tiler.ITiler {
	return &Sampler{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

// Starts the sampling process. The run stops at the first model that fails.
func (s *Sampler) RunTiler(opts *tiler.TilerOptions) error {
	if err := opts.Sampling.Validate(); err != nil {
		return err
	}
	if err := validateFormat(opts.Format); err != nil {
		return err
	}

	glog.Infoln("Preparing list of files to process...")
	modelFiles, err := s.fileFinder.GetModelFilesToProcess(opts)
	if err != nil {
		return tiler.Fail(tiler.ErrFileRead, err, "list models in %s", opts.Input)
	}
	if len(modelFiles) == 0 {
		return tiler.Fail(tiler.ErrNoMeshData, nil, "no .gltf/.glb files in %s", opts.Input)
	}
	for i, filePath := range modelFiles {
		glog.Infof("model path %d [%s]", i+1, filePath)
	}

	logSamplingConfig(opts.Sampling)

	for i, filePath := range modelFiles {
		tools.LogOutput("Processing file " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(modelFiles)))

		modelOpts := opts
		if opts.FolderProcessing {
			modelOpts = opts.WithOutput(outputForModel(opts.Output, filePath, opts.Format))
		}
		if err := s.processModelFile(filePath, modelOpts); err != nil {
			return errors.WithMessagef(err, "processing %s", filePath)
		}
	}

	return nil
}

func (s *Sampler) processModelFile(filePath string, opts *tiler.TilerOptions) error {
	cloud, err := s.sampleModel(filePath, opts.Sampling)
	if err != nil {
		return err
	}
	logCloudSummary(cloud)

	if err := exportCloud(cloud, opts.Format, opts.Output, s.algorithmManager); err != nil {
		return err
	}

	tools.LogOutput("> done processing", filepath.Base(filePath))
	return nil
}

// Loads the model and samples it into a point cloud named after the model file
func (s *Sampler) sampleModel(filePath string, config sampling.SamplingConfig) (*pointcloud.PointCloud, error) {
	tools.LogOutput("> reading model...", filepath.Base(filePath))
	buffer, err := s.algorithmManager.GetMeshLoaderAlgorithm().Load(filePath, config.IncludeNormals(), config.IncludeColors())
	if err != nil {
		return nil, err
	}

	tools.LogOutput("> sampling points...")
	points := sampling.Generate(buffer.Vertices, buffer.Normals, buffer.Colors, buffer.Indices, config)

	return pointcloud.New(points, filepath.Base(filePath)), nil
}
