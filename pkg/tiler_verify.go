package pkg

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecopia-map/mesh_tiler/internal/ept"
	"github.com/ecopia-map/mesh_tiler/internal/geometry"
	"github.com/ecopia-map/mesh_tiler/internal/io"
	"github.com/ecopia-map/mesh_tiler/internal/octree"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/ecopia-map/mesh_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/mesh_tiler/tools"
	"github.com/golang/glog"
	"go.uber.org/multierr"
)

// Verifier checks that an EPT folder is self consistent
type Verifier struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func NewVerifier(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) tiler.ITiler {
	return &Verifier{
		fileFinder:       fileFinder,
		algorithmManager: algorithmManager,
	}
}

func (v *Verifier) RunTiler(opts *tiler.TilerOptions) error {
	dir := opts.Input
	glog.Infoln("> verifying", dir)

	metadata, err := ept.ReadMetadata(dir)
	if err != nil {
		return err
	}
	if err := v.verifyMetadata(metadata); err != nil {
		return err
	}

	hierarchy, err := v.readHierarchy(dir)
	if err != nil {
		return err
	}

	layout, _ := metadata.Layout()
	root := geometry.NewBoundingBoxFromArray(metadata.Bounds)

	var problems error
	var total uint64
	keys := make([]string, 0, len(hierarchy))
	for name := range hierarchy {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	for _, name := range keys {
		count := hierarchy[name]
		key, err := octree.ParseKey(name)
		if err != nil {
			problems = multierr.Append(problems, err)
			continue
		}
		if count < 0 {
			problems = multierr.Append(problems, tiler.Fail(tiler.ErrVerification, nil, "tile %s: negative count %d", name, count))
			continue
		}
		total += uint64(count)
		problems = multierr.Append(problems, v.verifyTile(dir, key, count, layout, root))
	}

	if total != metadata.Points {
		problems = multierr.Append(problems, tiler.Fail(tiler.ErrVerification, nil, "hierarchy holds %d points, ept.json declares %d", total, metadata.Points))
	}

	if problems != nil {
		for _, problem := range multierr.Errors(problems) {
			glog.Errorln(problem)
		}
		return tiler.Fail(tiler.ErrVerification, problems, "%s", dir)
	}

	tools.LogOutput("> verified", dir, "-", metadata.Points, "points in", len(hierarchy), "tiles, bounds", fmtBounds(metadata.Bounds))
	return nil
}

func (v *Verifier) verifyMetadata(metadata *ept.Metadata) error {
	if metadata.DataType != ept.DataType {
		return tiler.Fail(tiler.ErrVerification, nil, "dataType %q, expected %q", metadata.DataType, ept.DataType)
	}
	if metadata.HierarchyType != ept.HierarchyType {
		return tiler.Fail(tiler.ErrVerification, nil, "hierarchyType %q, expected %q", metadata.HierarchyType, ept.HierarchyType)
	}
	if _, err := metadata.Layout(); err != nil {
		return tiler.Fail(tiler.ErrVerification, err, "schema")
	}
	return nil
}

// Reads every hierarchy file and merges their entries
func (v *Verifier) readHierarchy(dir string) (map[string]int64, error) {
	folder := filepath.Join(dir, ept.HierarchyFolder)
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, tiler.Fail(tiler.ErrFileRead, err, "read %s", folder)
	}

	hierarchy := make(map[string]int64)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, tiler.Fail(tiler.ErrFileRead, err, "read %s", path)
		}
		var counts map[string]int64
		if err := json.Unmarshal(content, &counts); err != nil {
			return nil, tiler.Fail(tiler.ErrSerialization, err, "decode %s", path)
		}
		for name, count := range counts {
			hierarchy[name] = count
		}
	}

	if _, ok := hierarchy[octree.RootKey().String()]; !ok {
		return nil, tiler.Fail(tiler.ErrVerification, nil, "hierarchy has no root entry")
	}
	return hierarchy, nil
}

// Checks the tile size against the record count and that every position falls inside the key's cell
func (v *Verifier) verifyTile(dir string, key octree.Key, count int64, layout io.RecordLayout, root *geometry.BoundingBox) error {
	path := io.TilePath(dir, key)
	content, err := os.ReadFile(path)
	if err != nil {
		return tiler.Fail(tiler.ErrVerification, err, "tile %s", key)
	}

	recordSize := int64(layout.Size())
	size := int64(len(content))
	if size%recordSize != 0 || size/recordSize != count {
		return tiler.Fail(tiler.ErrVerification, nil, "tile %s: %d bytes, expected %d records of %d bytes", key, size, count, recordSize)
	}

	cell := key.Bounds(root)
	for i := 0; i < int(count); i++ {
		position := tools.ReadFloat32Triplet(content[int64(i)*recordSize:])
		if !cell.Contains(float64(position[0]), float64(position[1]), float64(position[2])) {
			return tiler.Fail(tiler.ErrVerification, nil, "tile %s: point %d at %s lies outside the tile bounds", key, i, tools.FmtVec3(position))
		}
	}
	return nil
}

// Renders [minx, miny, minz, maxx, maxy, maxz] with the summary precision
func fmtBounds(bounds [6]float64) string {
	parts := make([]string, len(bounds))
	for i, value := range bounds {
		parts[i] = tools.FmtFloat(value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
