package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ecopia-map/mesh_tiler/internal/config"
	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/ecopia-map/mesh_tiler/pkg"
	"github.com/ecopia-map/mesh_tiler/pkg/algorithm_manager"
	"github.com/ecopia-map/mesh_tiler/tools"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const VERSION = "0.1.0"

const logo = `
                     _       _   _ _
 _ __ ___   ___  ___| |__   | |_(_) | ___ _ __
| '_ ' _ \ / _ \/ __| '_ \  | __| | |/ _ \ '__|
| | | | | |  __/\__ \ | | | | |_| | |  __/ |
|_| |_| |_|\___||___/_| |_|  \__|_|_|\___|_|
  Point clouds and EPT tiles from glTF meshes
`

func main() {
	defer glog.Flush()

	log.SetPrefix("[mesh_tiler] ")
	log.SetFlags(log.LUTC | log.Ldate | log.Lmicroseconds | log.Lshortfile)

	flagsGlobal := tools.ParseFlagsGlobal()
	glog.V(2).Infoln("global flags", tools.FmtJSONString(flagsGlobal))

	if *flagsGlobal.Version {
		printVersion()
		return
	}

	if *flagsGlobal.Help {
		showHelp()
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		glog.Flush()
		log.Fatal("Please specify a subcommand [sample|merge|verify].")
	}
	cmd, args := args[0], args[1:]

	var err error
	switch cmd {
	case tools.CommandSample:
		err = mainCommandSample(args)
	case tools.CommandMerge:
		err = mainCommandMerge(args)
	case tools.CommandVerify:
		err = mainCommandVerify(args)
	default:
		glog.Flush()
		log.Fatalf("Unrecognized command [%q]. Command must be one of [sample|merge|verify]", cmd)
	}

	if err != nil {
		glog.Errorf("%+v", err)
		glog.Flush()
		log.Fatal("Error: ", err)
	}
}

// Sets up the console output shared by every subcommand. Returns false when the command should stop
// after printing help or version.
func setupOutput(flags tools.OutputFlags) bool {
	if *flags.Help {
		showHelp()
		return false
	}
	if *flags.Version {
		printVersion()
		return false
	}

	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if !*flags.LogTimestamp {
		tools.DisableLoggerTimestamp()
	}
	return true
}

func mainCommandSample(args []string) error {
	flags := tools.ParseFlagsForCommandSample(args)
	if !setupOutput(flags.OutputFlags) {
		return nil
	}

	profile, err := config.Load(*flags.ConfigPath, flags.Overrides())
	if err != nil {
		return err
	}
	samplingConfig, err := profile.SamplingConfig()
	if err != nil {
		return err
	}
	format, err := profile.Format()
	if err != nil {
		return err
	}

	opts := tiler.TilerOptions{
		Input:            *flags.Input,
		Output:           *flags.Output,
		Format:           format,
		FolderProcessing: *flags.FolderProcessing,
		Recursive:        *flags.RecursiveFolderProcessing,
		Sampling:         samplingConfig,
		MaxPointsPerTile: *flags.MaxPointsPerTile,
		Command:          tools.CommandSample,
	}

	if err := validateOptionsForCommandSample(&opts); err != nil {
		return errors.WithMessage(err, "error parsing input parameters")
	}

	defer timeTrack(time.Now(), "sampling")
	err = pkg.NewSampler(tools.NewStandardFileFinder(), algorithm_manager.NewAlgorithmManager(&opts)).RunTiler(&opts)
	if err == nil {
		tools.LogOutput("Sampling Completed")
	}
	return err
}

// Validates the input options checking that the input exists and an output is given
func validateOptionsForCommandSample(opts *tiler.TilerOptions) error {
	if opts.Input == "" {
		return tiler.Fail(tiler.ErrInvalidArguments, nil, "input file/folder not specified, use -input")
	}
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return tiler.Fail(tiler.ErrFileRead, err, "input file/folder not found")
	}
	if opts.FolderProcessing && !tools.IsDirectory(opts.Input) {
		return tiler.Fail(tiler.ErrInvalidArguments, nil, "input must be a folder when -folder is set")
	}
	if opts.Output == "" {
		return tiler.Fail(tiler.ErrInvalidArguments, nil, "output not specified, use -output")
	}
	return nil
}

func mainCommandMerge(args []string) error {
	flags := tools.ParseFlagsForCommandMerge(args)
	if !setupOutput(flags.OutputFlags) {
		return nil
	}

	format := tiler.ParseFormat(*flags.Format)
	if format == "" {
		return tiler.Fail(tiler.ErrInvalidFormat, nil, "%q, use json or ept", *flags.Format)
	}

	opts := tiler.TilerOptions{
		Inputs:           flags.Inputs,
		Output:           *flags.Output,
		Format:           format,
		Recursive:        *flags.Recursive,
		MaxPointsPerTile: *flags.MaxPointsPerTile,
		Command:          tools.CommandMerge,
	}

	if err := validateOptionsForCommandMerge(&opts); err != nil {
		return errors.WithMessage(err, "error parsing input parameters")
	}

	defer timeTrack(time.Now(), "merge")
	err := pkg.NewMerger(tools.NewStandardFileFinder(), algorithm_manager.NewAlgorithmManager(&opts)).RunTiler(&opts)
	if err == nil {
		tools.LogOutput("Merge Completed")
	}
	return err
}

func validateOptionsForCommandMerge(opts *tiler.TilerOptions) error {
	if len(opts.Inputs) == 0 {
		return tiler.Fail(tiler.ErrInvalidArguments, nil, "no input point cloud specified")
	}
	for _, input := range opts.Inputs {
		if !tools.PathExists(input) {
			return tiler.Fail(tiler.ErrFileRead, nil, "input file/folder not found: %s", input)
		}
	}
	if opts.Output == "" {
		return tiler.Fail(tiler.ErrInvalidArguments, nil, "output not specified, use -output")
	}
	return nil
}

func mainCommandVerify(args []string) error {
	flags := tools.ParseFlagsForCommandVerify(args)
	if !setupOutput(flags.OutputFlags) {
		return nil
	}

	opts := tiler.TilerOptions{
		Input:   *flags.Input,
		Command: tools.CommandVerify,
	}
	if opts.Input == "" {
		return tiler.Fail(tiler.ErrInvalidArguments, nil, "EPT folder not specified, use -input")
	}
	if !tools.IsDirectory(opts.Input) {
		return tiler.Fail(tiler.ErrFileRead, nil, "EPT folder not found: %q", opts.Input)
	}

	return pkg.NewVerifier(tools.NewStandardFileFinder(), algorithm_manager.NewAlgorithmManager(&opts)).RunTiler(&opts)
}

func timeTrack(start time.Time, name string) {
	elapsed := time.Since(start)
	tools.LogOutput(fmt.Sprintf("%s took %s", name, elapsed))
}

func printLogo() {
	fmt.Print(logo)
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("mesh_tiler samples glTF/GLB meshes into point clouds and writes them as JSON or as an EPT tile folder")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Usage: mesh_tiler [global flags] <sample|merge|verify> [command flags]")
	fmt.Println("  sample  -i model.glb -o cloud.json [-n 5000] [-s uniform|area-weighted|vertices] [-f json|ept]")
	fmt.Println("  merge   -o merged.json [-f json|ept] a.json b.json ...")
	fmt.Println("  verify  ept-folder")
	fmt.Println("")
	fmt.Println("Global flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Println("Use 'mesh_tiler <command> -help' for the flags of a command.")
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
