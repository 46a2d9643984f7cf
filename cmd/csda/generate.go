package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/csda-ml/csda/internal/checkpoint"
	"github.com/csda-ml/csda/internal/launch"
	"github.com/csda-ml/csda/internal/recipe"
)

// runGenerate renders a generation invocation from a recipe and launches
// it, writing the framework's output to -out for later scoring.
func runGenerate(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(w)
	var (
		recipePath = fs.String("recipe", "", "path to the experiment recipe (HCL)")
		expName    = fs.String("experiment", "", "experiment block to use (default: the only one)")
		dataDir    = fs.String("data", "", "value for the ${data_dir} recipe variable")
		ckptPath   = fs.String("checkpoint", "", "checkpoint to decode with (default: best in save_dir)")
		outPath    = fs.String("out", "", "write generation output here instead of stdout")
		dryRun     = fs.Bool("dry-run", false, "print the rendered command instead of running it")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *recipePath == "" {
		return fmt.Errorf("generate: -recipe is required")
	}

	runID := launch.NewRunID()
	exp, err := loadExperiment(*recipePath, *expName, *dataDir, runID)
	if err != nil {
		return err
	}

	ckpt := *ckptPath
	if ckpt == "" {
		if exp.SaveDir == "" {
			return fmt.Errorf("generate: -checkpoint is required when the recipe has no save_dir")
		}
		ckpt, err = checkpoint.Best(exp.SaveDir)
		if err != nil {
			return err
		}
	}

	eouIdx, err := recipe.ResolveEOUIndex(exp.DataDir, exp.ResStream(), exp.EOUMarker())
	if err != nil {
		return err
	}
	argv, err := exp.GenerateArgs(eouIdx, ckpt)
	if err != nil {
		return err
	}

	if *dryRun {
		fmt.Fprintln(w, strings.Join(argv, " "))
		return nil
	}

	opts := launch.Options{GPUs: exp.GPUs, RunID: runID}
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		opts.Stdout = f
	}
	return launch.Run(ctx, argv, opts)
}
