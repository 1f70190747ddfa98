package tiler

import (
	"strings"

	"github.com/ecopia-map/mesh_tiler/internal/sampling"
)

type Format string

const (
	// Flat JSON document holding every point plus the cloud metadata
	FormatJSON Format = "json"

	// EPT-like directory: ept.json, ept-data/ binary tiles, ept-hierarchy/ index
	FormatEPT Format = "ept"
)

func (f Format) String() string {
	return string(f)
}

// Parses an output format name, returns an empty Format when the name is not recognized
func ParseFormat(value string) Format {
	normalizedValue := strings.Trim(strings.ToLower(value), " ")
	if normalizedValue == "json" {
		return FormatJSON
	} else if normalizedValue == "ept" {
		return FormatEPT
	}
	return ""
}

// Contains the options needed for a sampling / tiling run
type TilerOptions struct {
	Input            string                  // Input model file/folder, or JSON point cloud for merge
	Inputs           []string                // Additional inputs, used by the merge command
	Output           string                  // Output file (json) or folder (ept)
	Format           Format                  // Output format
	FolderProcessing bool                    // Enables the processing of all model files in the input folder
	Recursive        bool                    // Recursive lookup of model files in subfolders
	Sampling         sampling.SamplingConfig // Point generation settings
	MaxPointsPerTile int                     // Tile size above which the EPT writer warns, 0 keeps the builder default

	Command string
}

func (opt *TilerOptions) Copy() *TilerOptions {
	newOpt := *opt
	if opt.Inputs != nil {
		newOpt.Inputs = append([]string(nil), opt.Inputs...)
	}
	return &newOpt
}

// Returns a copy of the options writing to the given output
func (opt *TilerOptions) WithOutput(output string) *TilerOptions {
	newOpt := opt.Copy()
	newOpt.Output = output
	return newOpt
}
