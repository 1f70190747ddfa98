package tools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ecopia-map/mesh_tiler/internal/tiler"
)

// Model file extensions the importer understands
var ModelExtensions = []string{".gltf", ".glb"}

type FileFinder interface {
	GetModelFilesToProcess(opts *tiler.TilerOptions) ([]string, error)
	GetPointCloudFilesToMerge(opts *tiler.TilerOptions) ([]string, error)
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

func (f *StandardFileFinder) GetModelFilesToProcess(opts *tiler.TilerOptions) ([]string, error) {
	// If folder processing is not enabled then the model file is given by -input flag, otherwise look for models
	// in -input folder eventually excluding nested folders if Recursive flag is disabled
	if !opts.FolderProcessing {
		return []string{opts.Input}, nil
	}

	return findFiles(opts.Input, opts.Recursive, ModelExtensions)
}

// Merge inputs are listed explicitly, a folder input contributes every .json file directly inside it
func (f *StandardFileFinder) GetPointCloudFilesToMerge(opts *tiler.TilerOptions) ([]string, error) {
	var files []string
	for _, input := range append([]string{opts.Input}, opts.Inputs...) {
		if input == "" {
			continue
		}
		if !IsDirectory(input) {
			files = append(files, input)
			continue
		}
		found, err := findFiles(input, opts.Recursive, []string{".json"})
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func findFiles(root string, recursive bool, extensions []string) ([]string, error) {
	var files = make([]string, 0)

	baseInfo, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	err = filepath.Walk(
		root,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if !recursive && !os.SameFile(info, baseInfo) {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(info.Name(), extensions) {
				files = append(files, path)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
