package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/csda-ml/csda/internal/corpus"
	"github.com/csda-ml/csda/internal/ctxlog"
	"github.com/csda-ml/csda/internal/dict"
	"github.com/csda-ml/csda/internal/tokenizer"
)

// runPreprocess builds the per-split artifact files and the shared
// dictionaries from raw dialogue corpora.
//
// The dictionary is built from the training split only and written for
// both the cxt and res streams (a joined vocabulary), matching how the
// framework loads dict.cxt.txt and dict.res.txt.
func runPreprocess(ctx context.Context, w io.Writer, args []string) error {
	fs := flag.NewFlagSet("preprocess", flag.ContinueOnError)
	fs.SetOutput(w)
	var (
		trainFile = fs.String("train", "", "raw training corpus (one dialogue per line)")
		validFile = fs.String("valid", "", "raw validation corpus")
		testFile  = fs.String("test", "", "raw test corpus")
		dest      = fs.String("dest", "data-bin", "output directory")
		eou       = fs.String("eou", corpus.DefaultEOU, "end-of-utterance marker token")
		tokSpec   = fs.String("tokenizer", "space", `tokenizer spec ("space" or "tiktoken:<encoding>")`)
		threshold = fs.Int("threshold", 0, "drop tokens seen fewer times than this")
		nwords    = fs.Int("nwords", 0, "cap the vocabulary at this many tokens (0 = no cap)")
		writeZ    = fs.Bool("z", true, "also write the .z latent-evidence stream")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *trainFile == "" {
		return fmt.Errorf("preprocess: -train is required")
	}

	log := ctxlog.FromContext(ctx)
	tok, err := tokenizer.New(*tokSpec)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*dest, 0o755); err != nil {
		return fmt.Errorf("failed to create dest dir: %w", err)
	}

	d := dict.New()
	splits := []struct {
		name  string
		path  string
		count bool // only the training split feeds the dictionary
	}{
		{"train", *trainFile, true},
		{"valid", *validFile, false},
		{"test", *testFile, false},
	}

	for _, split := range splits {
		if split.path == "" {
			continue
		}
		dialogues, err := corpus.LoadFile(split.path, *eou)
		if err != nil {
			return err
		}

		var counter *dict.Dictionary
		if split.count {
			counter = d
		}
		writeSet := dialogues
		if split.name == "test" {
			// One test line per distinct context, so generated hypotheses
			// pair 1:1 with the test.refs lines.
			writeSet = corpus.DedupeContexts(dialogues, *eou)
		}
		stats, err := corpus.WriteSplit(*dest, split.name, writeSet, counter, corpus.SplitOptions{
			EOU:       *eou,
			Tokenizer: tok,
			WriteZ:    *writeZ,
		})
		if err != nil {
			return err
		}
		log.Info("wrote split",
			"split", split.name,
			"dialogues", stats.Written,
			"skipped", stats.Skipped,
			"tokens", stats.Tokens,
		)

		if split.name == "test" {
			refsPath := filepath.Join(*dest, "test.refs")
			if err := corpus.WriteRefs(refsPath, dialogues, *eou); err != nil {
				return err
			}
			log.Info("wrote multi-reference file", "path", refsPath)
		}
	}

	d.Finalize(*threshold, *nwords)
	for _, stream := range []string{"cxt", "res"} {
		path := filepath.Join(*dest, "dict."+stream+".txt")
		if err := d.Save(path); err != nil {
			return err
		}
	}
	log.Info("wrote dictionaries", "types", d.Len()-dict.NumSpecial)

	eouIdx, err := d.StrictIndex(*eou)
	if err != nil {
		return fmt.Errorf("marker %q never occurred in the training corpus: %w", *eou, err)
	}
	fmt.Fprintf(w, "eou index: %d (pass --eou %d to the framework)\n", eouIdx, eouIdx)
	return nil
}
