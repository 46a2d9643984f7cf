package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/csda-ml/csda/internal/dict"
	"github.com/csda-ml/csda/internal/tokenizer"
)

// SplitOptions controls how one corpus split is written.
type SplitOptions struct {
	// EOU is the end-of-utterance marker. Defaults to DefaultEOU.
	EOU string

	// Tokenizer re-tokenizes every turn before writing. Defaults to the
	// whitespace tokenizer, which leaves pre-tokenized corpora untouched.
	Tokenizer tokenizer.Tokenizer

	// WriteZ additionally emits the <split>.z latent-evidence stream.
	WriteZ bool

	// Candidates supplies extra candidate responses per dialogue for the
	// .z stream; may be nil or shorter than the dialogue list.
	Candidates [][]string
}

// SplitStats reports what WriteSplit produced.
type SplitStats struct {
	Written int // dialogues written
	Skipped int // dialogues dropped for having fewer than two turns
	Tokens  int // total tokens across pre lines
}

func (o *SplitOptions) setDefaults() {
	if o.EOU == "" {
		o.EOU = DefaultEOU
	}
	if o.Tokenizer == nil {
		o.Tokenizer = tokenizer.NewSpace()
	}
}

// WriteSplit writes <split>.pre, <split>.cxt and <split>.res (and
// optionally <split>.z) under dir, counting tokens into d if non-nil.
//
// Dialogues with fewer than two turns have no context/response split and
// are skipped.
func WriteSplit(dir, split string, dialogues []Dialogue, d *dict.Dictionary, opts SplitOptions) (SplitStats, error) {
	opts.setDefaults()

	files := map[string]*bufio.Writer{}
	exts := []string{"pre", "cxt", "res"}
	if opts.WriteZ {
		exts = append(exts, "z")
	}
	var closers []*os.File
	for _, ext := range exts {
		f, err := os.Create(filepath.Join(dir, split+"."+ext))
		if err != nil {
			return SplitStats{}, fmt.Errorf("failed to create split file: %w", err)
		}
		closers = append(closers, f)
		files[ext] = bufio.NewWriter(f)
	}
	defer func() {
		for _, f := range closers {
			f.Close()
		}
	}()

	var stats SplitStats
	for i, dlg := range dialogues {
		dlg, err := retokenize(dlg, opts.Tokenizer)
		if err != nil {
			return stats, err
		}
		if len(dlg.Turns) < 2 {
			stats.Skipped++
			continue
		}

		pre := dlg.Pre(opts.EOU)
		cxt := dlg.Cxt(opts.EOU)
		res := dlg.Res()

		// The framework reconstructs pre from cxt and res; a violation here
		// means the tokenizer produced a turn containing the marker.
		if want := cxt + " " + opts.EOU + " " + res; pre != want {
			return stats, fmt.Errorf("pre/cxt/res invariant violated for dialogue %d", i)
		}

		lines := map[string]string{"pre": pre, "cxt": cxt, "res": res}
		if opts.WriteZ {
			var cands []string
			if i < len(opts.Candidates) {
				cands = opts.Candidates[i]
			}
			lines["z"] = dlg.Z(opts.EOU, cands)
		}
		for _, ext := range exts {
			if _, err := files[ext].WriteString(lines[ext] + "\n"); err != nil {
				return stats, fmt.Errorf("failed to write %s.%s: %w", split, ext, err)
			}
		}

		tokens := strings.Fields(pre)
		stats.Tokens += len(tokens)
		if d != nil {
			for _, tok := range tokens {
				d.AddSymbol(tok, 1)
			}
		}
		stats.Written++
	}

	for _, ext := range exts {
		if err := files[ext].Flush(); err != nil {
			return stats, fmt.Errorf("failed to flush %s.%s: %w", split, ext, err)
		}
	}
	return stats, nil
}

// retokenize runs every turn through tok and space-joins the result.
func retokenize(dlg Dialogue, tok tokenizer.Tokenizer) (Dialogue, error) {
	out := Dialogue{Turns: make([]string, 0, len(dlg.Turns))}
	for _, turn := range dlg.Turns {
		toks, err := tok.Tokenize(turn)
		if err != nil {
			return Dialogue{}, fmt.Errorf("failed to tokenize turn: %w", err)
		}
		if len(toks) == 0 {
			continue
		}
		out.Turns = append(out.Turns, strings.Join(toks, " "))
	}
	return out, nil
}

// DedupeContexts keeps the first dialogue per distinct context, in
// first-seen order, dropping dialogues with no context/response split.
// Writing a test split from the result pairs it line for line with the
// refs file WriteRefs produces from the full dialogue list.
func DedupeContexts(dialogues []Dialogue, eou string) []Dialogue {
	if eou == "" {
		eou = DefaultEOU
	}
	seen := map[string]struct{}{}
	var out []Dialogue
	for _, dlg := range dialogues {
		if len(dlg.Turns) < 2 {
			continue
		}
		cxt := dlg.Cxt(eou)
		if _, ok := seen[cxt]; ok {
			continue
		}
		seen[cxt] = struct{}{}
		out = append(out, dlg)
	}
	return out
}

// WriteRefs writes the multi-reference file for a test split: dialogues
// sharing an identical context contribute alternative references for it,
// one tab-separated line per distinct context, in first-seen order.
func WriteRefs(path string, dialogues []Dialogue, eou string) error {
	if eou == "" {
		eou = DefaultEOU
	}

	groups := map[string][]string{}
	var order []string
	for _, dlg := range dialogues {
		if len(dlg.Turns) < 2 {
			continue
		}
		cxt := dlg.Cxt(eou)
		if _, ok := groups[cxt]; !ok {
			order = append(order, cxt)
		}
		groups[cxt] = append(groups[cxt], dlg.Res())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create refs file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, cxt := range order {
		if _, err := w.WriteString(strings.Join(groups[cxt], "\t") + "\n"); err != nil {
			return fmt.Errorf("failed to write refs: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush refs: %w", err)
	}
	return f.Close()
}
