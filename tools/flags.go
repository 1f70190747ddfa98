package tools

import (
	"flag"
	"strings"

	"github.com/ecopia-map/mesh_tiler/internal/config"
	"github.com/golang/glog"
)

const (
	CommandSample = "sample"
	CommandMerge  = "merge"
	CommandVerify = "verify"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type OutputFlags struct {
	Silent       *bool `json:"silent"`
	LogTimestamp *bool `json:"timestamp"`
	Help         *bool `json:"help"`
	Version      *bool `json:"version"`
}

type SamplingFlags struct {
	ConfigPath     *string  `json:"config"`
	Format         *string  `json:"format"`
	PointCount     *int     `json:"points"`
	Strategy       *string  `json:"strategy"`
	IncludeNormals *bool    `json:"normals"`
	IncludeColors  *bool    `json:"colors"`
	Scale          *float64 `json:"scale"`
	Jitter         *float64 `json:"jitter"`
	Seed           *uint64  `json:"seed"`

	// long names of the flags given explicitly on the command line
	set map[string]bool
}

type FlagsForCommandSample struct {
	SamplingFlags
	OutputFlags
	Input                     *string `json:"input"`
	Output                    *string `json:"output"`
	FolderProcessing          *bool   `json:"folder"`
	RecursiveFolderProcessing *bool   `json:"recursive"`
	MaxPointsPerTile          *int    `json:"max_tile_points"`
}

type FlagsForCommandMerge struct {
	OutputFlags
	Inputs           []string `json:"inputs"`
	Output           *string  `json:"output"`
	Format           *string  `json:"format"`
	Recursive        *bool    `json:"recursive"`
	MaxPointsPerTile *int     `json:"max_tile_points"`
}

type FlagsForCommandVerify struct {
	OutputFlags
	Input *string `json:"input"`
}

// Registers the global flags next to the glog ones (-v, -logtostderr, -log_dir) and parses them
func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "", false, "Displays the version of mesh_tiler.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func ParseFlagsForCommandSample(args []string) FlagsForCommandSample {
	glog.V(2).Infoln("sample args", FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-sample", flag.ExitOnError)

	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the input glTF/GLB model, or the model folder when -folder is set.")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output JSON file or EPT folder. With -folder it is the folder receiving one output per model.")
	folderProcessing := defineBoolFlagCommand(flagCommand, "folder", "", false, "Enables processing of all .gltf/.glb files from input folder. Input must be a folder if specified")
	recursiveFolderProcessing := defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for all model files inside the subfolders")
	maxPointsPerTile := defineMaxTilePointsFlag(flagCommand)
	samplingFlags := defineSamplingFlags(flagCommand)
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)
	samplingFlags.set = visitedFlags(flagCommand)

	return FlagsForCommandSample{
		SamplingFlags:             samplingFlags,
		OutputFlags:               outputFlags,
		Input:                     input,
		Output:                    output,
		FolderProcessing:          folderProcessing,
		RecursiveFolderProcessing: recursiveFolderProcessing,
		MaxPointsPerTile:          maxPointsPerTile,
	}
}

// Remaining positional arguments are additional inputs
func ParseFlagsForCommandMerge(args []string) FlagsForCommandMerge {
	glog.V(2).Infoln("merge args", FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-merge", flag.ExitOnError)

	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies a JSON point cloud, or a folder of them, to merge. More inputs can follow the flags.")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies the output JSON file or EPT folder.")
	format := defineStringFlagCommand(flagCommand, "format", "f", "json", "Output format, 'json' or 'ept'.")
	recursive := defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for .json files inside input subfolders")
	maxPointsPerTile := defineMaxTilePointsFlag(flagCommand)
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)

	inputs := make([]string, 0)
	if *input != "" {
		inputs = append(inputs, *input)
	}
	inputs = append(inputs, flagCommand.Args()...)

	return FlagsForCommandMerge{
		OutputFlags:      outputFlags,
		Inputs:           inputs,
		Output:           output,
		Format:           format,
		Recursive:        recursive,
		MaxPointsPerTile: maxPointsPerTile,
	}
}

func ParseFlagsForCommandVerify(args []string) FlagsForCommandVerify {
	glog.V(2).Infoln("verify args", FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-verify", flag.ExitOnError)

	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the EPT folder to check.")
	outputFlags := defineOutputFlags(flagCommand)

	flagCommand.Parse(args)
	if *input == "" && flagCommand.NArg() > 0 {
		*input = flagCommand.Arg(0)
	}

	return FlagsForCommandVerify{
		OutputFlags: outputFlags,
		Input:       input,
	}
}

// Overrides returns the sampling values explicitly given on the command line, the others
// stay nil so the profile file or the defaults apply.
func (f SamplingFlags) Overrides() config.Overrides {
	var o config.Overrides
	if f.set["points"] {
		o.PointCount = f.PointCount
	}
	if f.set["strategy"] {
		o.Strategy = f.Strategy
	}
	if f.set["normals"] {
		o.IncludeNormals = f.IncludeNormals
	}
	if f.set["colors"] {
		o.IncludeColors = f.IncludeColors
	}
	if f.set["scale"] {
		scale := float32(*f.Scale)
		o.Scale = &scale
	}
	if f.set["jitter"] {
		jitter := float32(*f.Jitter)
		o.Jitter = &jitter
	}
	if f.set["seed"] {
		o.Seed = f.Seed
	}
	if f.set["format"] {
		o.Format = f.Format
	}
	return o
}

func defineSamplingFlags(flagCommand *flag.FlagSet) SamplingFlags {
	return SamplingFlags{
		ConfigPath:     defineStringFlagCommand(flagCommand, "config", "c", "", "YAML sampling profile. Flags given explicitly override its values."),
		Format:         defineStringFlagCommand(flagCommand, "format", "f", "json", "Output format, 'json' or 'ept'."),
		PointCount:     defineIntFlagCommand(flagCommand, "points", "n", 2000, "Number of points to generate. Acts as a ceiling for the vertices strategy."),
		Strategy:       defineStringFlagCommand(flagCommand, "strategy", "s", "area-weighted", "Sampling strategy: 'uniform', 'area-weighted' or 'vertices'."),
		IncludeNormals: defineBoolFlagCommand(flagCommand, "normals", "", true, "Include vertex normals, use -normals=false to drop them."),
		IncludeColors:  defineBoolFlagCommand(flagCommand, "colors", "", true, "Include vertex colors, use -colors=false to drop them."),
		Scale:          defineFloat64FlagCommand(flagCommand, "scale", "", 1.0, "Scale factor applied to every point."),
		Jitter:         defineFloat64FlagCommand(flagCommand, "jitter", "j", 0, "Random displacement amount, clamped to [0,1]. Each axis moves by at most a tenth of it."),
		Seed:           defineUint64FlagCommand(flagCommand, "seed", "", 0, "Non zero seed makes the sampling reproducible."),
	}
}

func defineMaxTilePointsFlag(flagCommand *flag.FlagSet) *int {
	return defineIntFlagCommand(flagCommand, "max-tile-points", "", 0, "EPT only. Tile size above which a warning is logged, 0 keeps the default of 100000.")
}

func defineOutputFlags(flagCommand *flag.FlagSet) OutputFlags {
	return OutputFlags{
		Silent:       defineBoolFlagCommand(flagCommand, "silent", "", false, "Use to suppress all the non-error messages."),
		LogTimestamp: defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages."),
		Help:         defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help."),
		Version:      defineBoolFlagCommand(flagCommand, "version", "", false, "Displays the version of mesh_tiler."),
	}
}

// Collects the long names of the flags set on the command line, shorthands are mapped back
// through the "(shorthand for x)" suffix of their usage.
func visitedFlags(flagCommand *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	flagCommand.Visit(func(f *flag.Flag) {
		name := f.Name
		if idx := strings.LastIndex(f.Usage, shorthandMarker); idx >= 0 {
			name = strings.TrimSuffix(f.Usage[idx+len(shorthandMarker):], ")")
		}
		set[name] = true
	})
	return set
}

const shorthandMarker = "(shorthand for "

func shorthandUsage(usage string, name string) string {
	return usage + " " + shorthandMarker + name + ")"
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flag.BoolVar(&output, shortHand, defaultValue, shorthandUsage(usage, name))
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, shorthandUsage(usage, name))
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, shorthandUsage(usage, name))
	}

	return &output
}

func defineUint64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue uint64, usage string) *uint64 {
	var output uint64
	flagCommand.Uint64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Uint64Var(&output, shortHand, defaultValue, shorthandUsage(usage, name))
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, shorthandUsage(usage, name))
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, shorthandUsage(usage, name))
	}
	return &output
}
