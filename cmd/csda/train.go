package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/csda-ml/csda/internal/launch"
	"github.com/csda-ml/csda/internal/recipe"
)

// runTrain renders a training invocation from a recipe and launches it.
func runTrain(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(w)
	var (
		recipePath = fs.String("recipe", "", "path to the experiment recipe (HCL)")
		expName    = fs.String("experiment", "", "experiment block to use (default: the only one)")
		dataDir    = fs.String("data", "", "value for the ${data_dir} recipe variable")
		runID      = fs.String("run-id", "", "run identifier (default: generated)")
		logDir     = fs.String("log-dir", "", "directory for per-run log copies")
		dryRun     = fs.Bool("dry-run", false, "print the rendered command instead of running it")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *recipePath == "" {
		return fmt.Errorf("train: -recipe is required")
	}
	if *runID == "" {
		*runID = launch.NewRunID()
	}

	exp, err := loadExperiment(*recipePath, *expName, *dataDir, *runID)
	if err != nil {
		return err
	}
	eouIdx, err := recipe.ResolveEOUIndex(exp.DataDir, exp.ResStream(), exp.EOUMarker())
	if err != nil {
		return err
	}
	argv, err := exp.TrainArgs(eouIdx)
	if err != nil {
		return err
	}

	if *dryRun {
		fmt.Fprintln(w, strings.Join(argv, " "))
		return nil
	}
	return launch.Run(ctx, argv, launch.Options{
		GPUs:   exp.GPUs,
		LogDir: *logDir,
		RunID:  *runID,
	})
}

// loadExperiment loads and validates one experiment block.
func loadExperiment(path, name, dataDir, runID string) (*recipe.Experiment, error) {
	file, err := recipe.Load(path, recipe.Vars{RunID: runID, DataDir: dataDir})
	if err != nil {
		return nil, err
	}
	exp, err := file.Experiment(name)
	if err != nil {
		return nil, err
	}
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	return exp, nil
}
