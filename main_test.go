package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ecopia-map/mesh_tiler/internal/tiler"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestValidateOptionsForCommandSample(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.glb")
	test.That(t, os.WriteFile(model, []byte("glb"), 0o644), test.ShouldBeNil)

	test.That(t, validateOptionsForCommandSample(&tiler.TilerOptions{Input: model, Output: "out.json"}), test.ShouldBeNil)

	for name, tc := range map[string]struct {
		opts *tiler.TilerOptions
		kind error
	}{
		"no input":        {&tiler.TilerOptions{Output: "out.json"}, tiler.ErrInvalidArguments},
		"missing input":   {&tiler.TilerOptions{Input: filepath.Join(dir, "missing.glb"), Output: "out.json"}, tiler.ErrFileRead},
		"file for folder": {&tiler.TilerOptions{Input: model, Output: "out", FolderProcessing: true}, tiler.ErrInvalidArguments},
		"no output":       {&tiler.TilerOptions{Input: model}, tiler.ErrInvalidArguments},
	} {
		t.Run(name, func(t *testing.T) {
			err := validateOptionsForCommandSample(tc.opts)
			test.That(t, errors.Is(err, tc.kind), test.ShouldBeTrue)
		})
	}
}

func TestValidateOptionsForCommandMerge(t *testing.T) {
	dir := t.TempDir()
	cloud := filepath.Join(dir, "a.json")
	test.That(t, os.WriteFile(cloud, []byte("{}"), 0o644), test.ShouldBeNil)

	test.That(t, validateOptionsForCommandMerge(&tiler.TilerOptions{Inputs: []string{cloud}, Output: "m.json"}), test.ShouldBeNil)

	err := validateOptionsForCommandMerge(&tiler.TilerOptions{Output: "m.json"})
	test.That(t, errors.Is(err, tiler.ErrInvalidArguments), test.ShouldBeTrue)

	err = validateOptionsForCommandMerge(&tiler.TilerOptions{Inputs: []string{cloud, filepath.Join(dir, "b.json")}, Output: "m.json"})
	test.That(t, errors.Is(err, tiler.ErrFileRead), test.ShouldBeTrue)

	err = validateOptionsForCommandMerge(&tiler.TilerOptions{Inputs: []string{cloud}})
	test.That(t, errors.Is(err, tiler.ErrInvalidArguments), test.ShouldBeTrue)
	test.That(t, errors.Is(err, tiler.ErrFileRead), test.ShouldBeFalse)
}
