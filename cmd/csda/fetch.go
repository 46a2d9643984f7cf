package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/csda-ml/csda/internal/checkpoint"
)

// runFetch downloads a published checkpoint and verifies its SHA-256.
func runFetch(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	fs.SetOutput(w)
	var (
		url    = fs.String("url", "", "checkpoint URL")
		sum    = fs.String("sha256", "", "expected SHA-256 (hex); empty skips verification")
		outArg = fs.String("out", "checkpoint_best.pt", "destination path")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *url == "" {
		return fmt.Errorf("fetch: -url is required")
	}

	if err := checkpoint.Fetch(ctx, nil, *url, *outArg, *sum); err != nil {
		return err
	}
	fmt.Fprintf(w, "fetched %s\n", *outArg)
	return nil
}
