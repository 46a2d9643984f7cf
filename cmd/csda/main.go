// Package main provides the csda dialogue experiment CLI.
//
// Subcommands:
//
//	preprocess  turn a raw dialogue corpus into framework-ready splits
//	train       render and launch a training run from a recipe
//	generate    render and launch generation from a recipe
//	score       compute dist1/dist2 and Bleu_1..4 for a generation output
//	fetch       download a published checkpoint with SHA-256 verification
//	version     show version
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/csda-ml/csda/internal/ctxlog"
)

const version = "v0.1.0"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run dispatches subcommands; split out from main for testing.
func run(w io.Writer, args []string) error {
	if len(args) == 0 {
		usage(w)
		return nil
	}

	ctx := ctxlog.WithLogger(context.Background(), slog.Default())

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "preprocess":
		return runPreprocess(ctx, w, rest)
	case "train":
		return runTrain(ctx, w, rest)
	case "generate":
		return runGenerate(ctx, w, rest)
	case "score":
		return runScore(ctx, w, rest)
	case "fetch":
		return runFetch(ctx, w, rest)
	case "version":
		fmt.Fprintf(w, "csda %s\n", version)
		return nil
	case "help", "-h", "--help":
		usage(w)
		return nil
	default:
		usage(w)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "csda - multi-turn dialogue experiment toolkit")
	fmt.Fprintf(w, "Version: %s\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  preprocess   Build .pre/.cxt/.res splits and dictionaries")
	fmt.Fprintln(w, "  train        Launch a training run from a recipe")
	fmt.Fprintln(w, "  generate     Launch generation from a recipe")
	fmt.Fprintln(w, "  score        Score a generation output file")
	fmt.Fprintln(w, "  fetch        Download a published checkpoint")
	fmt.Fprintln(w, "  version      Show version")
}
