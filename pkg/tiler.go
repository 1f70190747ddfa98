package pkg

import (
	"path/filepath"

	"github.com/ecopia-map/mesh_tiler/internal/pointcloud"
	"github.com/ecopia-map/mesh_tiler/internal/sampling"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/ecopia-map/mesh_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/mesh_tiler/tools"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Writes the cloud in the requested format: a JSON file, or an EPT folder built by the manager's tile builder
func exportCloud(cloud *pointcloud.PointCloud, format tiler.Format, output string, algorithmManager algorithm_manager.AlgorithmManager) error {
	switch format {
	case tiler.FormatJSON:
		tools.LogOutput("> saving to JSON:", output)
		return cloud.SaveToFile(output)
	case tiler.FormatEPT:
		tools.LogOutput("> building EPT structure:", output)
		if err := algorithmManager.GetTileBuilderAlgorithm().Build(cloud, output); err != nil {
			return err
		}
		tools.LogOutput("> EPT files created: ept.json, ept-data/, ept-hierarchy/")
		return nil
	}
	return errors.Wrapf(tiler.ErrInvalidFormat, "%q, use json or ept", format)
}

func validateFormat(format tiler.Format) error {
	if format != tiler.FormatJSON && format != tiler.FormatEPT {
		return errors.Wrapf(tiler.ErrInvalidFormat, "%q, use json or ept", format)
	}
	return nil
}

// Output location for one model when a whole folder is processed
func outputForModel(outputFolder string, modelPath string, format tiler.Format) string {
	name := tools.GetFilenameWithoutExtension(modelPath)
	if format == tiler.FormatJSON {
		name += ".json"
	}
	return filepath.Join(outputFolder, name)
}

func logSamplingConfig(config sampling.SamplingConfig) {
	tools.LogOutput("Configuration:")
	tools.LogOutput("  - Point count:", config.PointCount())
	tools.LogOutput("  - Strategy:", config.Strategy())
	tools.LogOutput("  - Include normals:", config.IncludeNormals())
	tools.LogOutput("  - Include colors:", config.IncludeColors())
	tools.LogOutput("  - Scale:", tools.FmtFloat32(config.Scale()))
	tools.LogOutput("  - Jitter:", tools.FmtFloat32(config.Jitter()))
	if config.Seeded() {
		tools.LogOutput("  - Seed:", config.Seed())
	}
}

func logCloudSummary(cloud *pointcloud.PointCloud) {
	metadata := cloud.Metadata()
	tools.LogOutput("Point cloud generated:")
	tools.LogOutput("  - Total points:", metadata.PointCount)
	tools.LogOutput("  - Bounds min:", tools.FmtVec3(metadata.BoundsMin))
	tools.LogOutput("  - Bounds max:", tools.FmtVec3(metadata.BoundsMax))
	tools.LogOutput("  - Has normals:", metadata.HasNormals)
	tools.LogOutput("  - Has colors:", metadata.HasColors)
	glog.V(2).Infof("cloud %q: %d points", metadata.SourceFile, metadata.PointCount)
}
