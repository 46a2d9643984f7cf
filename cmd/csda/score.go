package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/csda-ml/csda/internal/genout"
	"github.com/csda-ml/csda/internal/metrics"
	"github.com/csda-ml/csda/internal/tokenizer"
)

// runScore computes dist1/dist2 and Bleu_1..4 for a generation output
// file, against a multi-reference file when one is given and against the
// logged targets otherwise. Hypotheses and references go through the same
// token normalization, so BLEU is case-insensitive on both sides.
//
// Usage: csda score [-refs test.refs] <output_file>
func runScore(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	fs.SetOutput(w)
	var (
		refsPath = fs.String("refs", "", "tab-separated multi-reference file")
		maxOrder = fs.Int("max-order", 4, "highest BLEU order to report")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("score: exactly one output file expected")
	}

	out, err := genout.ParseFile(fs.Arg(0))
	if err != nil {
		return err
	}

	refs := out.Targets()
	if *refsPath != "" {
		refs, err = genout.LoadRefs(*refsPath)
		if err != nil {
			return err
		}
	}
	if err := out.PairRefs(refs); err != nil {
		return err
	}

	hyps := out.Hypotheses()
	for i, hyp := range hyps {
		hyps[i] = tokenizer.CleanTokens(hyp)
	}
	for _, set := range refs {
		for j, ref := range set {
			set[j] = tokenizer.CleanTokens(ref)
		}
	}

	dist1, dist2 := metrics.Diversity(hyps)
	fmt.Fprintf(w, "dist1: %.2f\n", metrics.Percent(dist1))
	fmt.Fprintf(w, "dist2: %.2f\n", metrics.Percent(dist2))

	scores, err := metrics.CorpusBLEU(refs, hyps, *maxOrder)
	if err != nil {
		return err
	}
	for k, s := range scores {
		fmt.Fprintf(w, "Bleu_%d: %.6f\n", k+1, s*100)
	}
	return nil
}
