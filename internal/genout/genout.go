// Package genout parses the plain-text logs emitted by the external
// framework's generation command.
//
// Relevant records, one per line, tab-separated:
//
//	S-<id>\t<source tokens>
//	T-<id>\t<target tokens>
//	H-<id>\t<score>\t<hypothesis tokens>
//
// Records arrive in batch order, not id order; accessors return them
// sorted by numeric id, matching the reference pipeline's version sort.
package genout

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Common errors.
var (
	ErrMalformedRecord = errors.New("malformed generation record")
	ErrCountMismatch   = errors.New("hypothesis and reference counts differ")
)

// Hypothesis is one H-record: a generated response with its model score.
type Hypothesis struct {
	ID     int
	Score  float64
	Tokens []string
}

// Output holds the parsed records of one generation run.
type Output struct {
	hyps    map[int]Hypothesis
	targets map[int][]string
	sources map[int][]string
}

// Parse reads generation log lines from r. Lines that are not S/T/H
// records (progress logs, config dumps) are ignored. When an id produced
// several hypotheses, the first one seen (the top-ranked beam) wins.
func Parse(r io.Reader) (*Output, error) {
	out := &Output{
		hyps:    make(map[int]Hypothesis),
		targets: make(map[int][]string),
		sources: make(map[int][]string),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "H-"):
			id, rest, err := splitRecord(line[2:])
			if err != nil {
				return nil, err
			}
			scoreStr, toks, found := strings.Cut(rest, "\t")
			if !found {
				return nil, fmt.Errorf("%w: %q", ErrMalformedRecord, line)
			}
			score, err := strconv.ParseFloat(scoreStr, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad score in %q", ErrMalformedRecord, line)
			}
			if _, ok := out.hyps[id]; !ok {
				out.hyps[id] = Hypothesis{ID: id, Score: score, Tokens: strings.Fields(toks)}
			}
		case strings.HasPrefix(line, "T-"):
			id, rest, err := splitRecord(line[2:])
			if err != nil {
				return nil, err
			}
			out.targets[id] = strings.Fields(rest)
		case strings.HasPrefix(line, "S-"):
			id, rest, err := splitRecord(line[2:])
			if err != nil {
				return nil, err
			}
			out.sources[id] = strings.Fields(rest)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read generation output: %w", err)
	}
	return out, nil
}

// ParseFile parses a generation log from path.
func ParseFile(path string) (*Output, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open generation output: %w", err)
	}
	defer f.Close()
	out, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// splitRecord splits "<id>\t<rest>" and parses the id.
func splitRecord(s string) (int, string, error) {
	idStr, rest, found := strings.Cut(s, "\t")
	if !found {
		return 0, "", fmt.Errorf("%w: %q", ErrMalformedRecord, s)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, "", fmt.Errorf("%w: bad id %q", ErrMalformedRecord, idStr)
	}
	return id, rest, nil
}

// Len returns the number of hypotheses.
func (o *Output) Len() int { return len(o.hyps) }

// ids returns hypothesis ids in ascending numeric order.
func (o *Output) ids() []int {
	ids := make([]int, 0, len(o.hyps))
	for id := range o.hyps {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Hypotheses returns hypothesis token lists ordered by id.
func (o *Output) Hypotheses() [][]string {
	out := make([][]string, 0, len(o.hyps))
	for _, id := range o.ids() {
		out = append(out, o.hyps[id].Tokens)
	}
	return out
}

// Targets returns the T-record token lists for ids that have a
// hypothesis, ordered by id, each wrapped as a single-reference set.
func (o *Output) Targets() [][][]string {
	out := make([][][]string, 0, len(o.hyps))
	for _, id := range o.ids() {
		out = append(out, [][]string{o.targets[id]})
	}
	return out
}

// LoadRefs reads a multi-reference file: one line per hypothesis,
// tab-separated alternatives, each space-tokenized.
func LoadRefs(path string) ([][][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open refs file: %w", err)
	}
	defer f.Close()

	var refs [][][]string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		var set [][]string
		for _, ref := range strings.Split(line, "\t") {
			set = append(set, strings.Fields(ref))
		}
		refs = append(refs, set)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return refs, nil
}

// PairRefs checks that refs lines up one-to-one with the hypotheses.
func (o *Output) PairRefs(refs [][][]string) error {
	if len(refs) != o.Len() {
		return fmt.Errorf("%w: %d hypotheses, %d reference lines", ErrCountMismatch, o.Len(), len(refs))
	}
	return nil
}
