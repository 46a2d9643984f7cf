// Package corpus provides the dialogue data model and split writers.
//
// This package wraps the internal corpus implementation and provides a
// clean public API for preprocessing multi-turn dialogue datasets into
// the .pre/.cxt/.res file triples the training framework consumes.
//
// Example usage:
//
//	import "github.com/csda-ml/csda/corpus"
//
//	dialogues, err := corpus.LoadFile("dialogues_train.txt", corpus.DefaultEOU)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stats, err := corpus.WriteSplit("out", "train", dialogues, d, corpus.SplitOptions{})
package corpus

import (
	"github.com/csda-ml/csda/internal/corpus"
	"github.com/csda-ml/csda/internal/dict"
)

// DefaultEOU is the end-of-utterance marker used by the DailyDialog corpus.
const DefaultEOU = corpus.DefaultEOU

// Dialogue is an ordered sequence of utterances.
type Dialogue = corpus.Dialogue

// SplitOptions controls how one corpus split is written.
type SplitOptions = corpus.SplitOptions

// SplitStats reports what WriteSplit produced.
type SplitStats = corpus.SplitStats

// ErrEmptyLine is returned by ParseLine for lines with no utterances.
var ErrEmptyLine = corpus.ErrEmptyLine

// ParseLine splits a raw corpus line on the eou marker.
func ParseLine(line, eou string) (Dialogue, error) {
	return corpus.ParseLine(line, eou)
}

// LoadFile reads a raw corpus file, one dialogue per line.
func LoadFile(path, eou string) ([]Dialogue, error) {
	return corpus.LoadFile(path, eou)
}

// DedupeContexts keeps the first dialogue per distinct context, so a
// test split written from the result pairs line for line with WriteRefs.
func DedupeContexts(dialogues []Dialogue, eou string) []Dialogue {
	return corpus.DedupeContexts(dialogues, eou)
}

// WriteSplit writes the per-split artifact files under dir.
func WriteSplit(dir, split string, dialogues []Dialogue, d *dict.Dictionary, opts SplitOptions) (SplitStats, error) {
	return corpus.WriteSplit(dir, split, dialogues, d, opts)
}

// WriteRefs writes the tab-separated multi-reference file for a test split.
func WriteRefs(path string, dialogues []Dialogue, eou string) error {
	return corpus.WriteRefs(path, dialogues, eou)
}
