// Package dict implements the shared token dictionary used by the dialogue
// data pipeline.
//
// A dictionary file (dict.<stream>.txt) holds one "token count" pair per
// line, sorted by descending count. The training framework implicitly
// reserves three indices before the file entries begin:
//
//	0  <pad>
//	1  </s>
//	2  <unk>
//
// so the token on 0-based file line i has index i + NumSpecial. Flag values
// passed to the framework (such as the end-of-utterance index for --eou)
// must be computed with that offset; FileIndex and Index encode the rule.
package dict

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

// Reserved special tokens, in index order.
const (
	PadWord = "<pad>"
	EosWord = "</s>"
	UnkWord = "<unk>"

	// NumSpecial is the number of reserved indices preceding file entries.
	NumSpecial = 3
)

// Common errors.
var (
	ErrMalformedLine = errors.New("malformed dictionary line")
	ErrUnknownToken  = errors.New("token not in dictionary")
)

// Dictionary maps tokens to integer indices and back.
//
// Indices 0..NumSpecial-1 are the reserved specials; all other indices
// correspond to dictionary-file lines in order.
type Dictionary struct {
	symbols []string
	counts  []int
	indices map[string]int
}

// New returns an empty dictionary containing only the reserved specials.
func New() *Dictionary {
	d := &Dictionary{indices: make(map[string]int)}
	for _, w := range []string{PadWord, EosWord, UnkWord} {
		d.indices[w] = len(d.symbols)
		d.symbols = append(d.symbols, w)
		d.counts = append(d.counts, 0)
	}
	return d
}

// Len returns the total number of entries, specials included.
func (d *Dictionary) Len() int { return len(d.symbols) }

// Pad returns the padding index.
func (d *Dictionary) Pad() int { return 0 }

// Eos returns the end-of-sentence index.
func (d *Dictionary) Eos() int { return 1 }

// Unk returns the unknown-token index.
func (d *Dictionary) Unk() int { return 2 }

// FileIndex converts a 0-based dictionary-file line number into the index
// the framework assigns to that token.
func FileIndex(line int) int { return line + NumSpecial }

// AddSymbol adds n occurrences of token and returns its index. Counts
// accumulate across calls.
func (d *Dictionary) AddSymbol(token string, n int) int {
	if idx, ok := d.indices[token]; ok {
		d.counts[idx] += n
		return idx
	}
	idx := len(d.symbols)
	d.indices[token] = idx
	d.symbols = append(d.symbols, token)
	d.counts = append(d.counts, n)
	return idx
}

// Index returns the index of token, falling back to Unk for unknown tokens.
func (d *Dictionary) Index(token string) int {
	if idx, ok := d.indices[token]; ok {
		return idx
	}
	return d.Unk()
}

// StrictIndex returns the index of token, or ErrUnknownToken if absent.
// Use it for tokens that must exist, such as the end-of-utterance marker.
func (d *Dictionary) StrictIndex(token string) (int, error) {
	if idx, ok := d.indices[token]; ok {
		return idx, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownToken, token)
}

// Symbol returns the token at idx.
func (d *Dictionary) Symbol(idx int) string {
	if idx < 0 || idx >= len(d.symbols) {
		return UnkWord
	}
	return d.symbols[idx]
}

// Count returns the occurrence count recorded for idx.
func (d *Dictionary) Count(idx int) int {
	if idx < 0 || idx >= len(d.counts) {
		return 0
	}
	return d.counts[idx]
}

// Finalize sorts non-special entries by descending count (ties keep
// insertion order) and applies the threshold and size limits.
//
// Entries with count < threshold are dropped (threshold <= 0 keeps all).
// If nwords > 0, at most nwords non-special entries are kept.
func (d *Dictionary) Finalize(threshold, nwords int) {
	type entry struct {
		sym   string
		count int
		order int
	}
	entries := make([]entry, 0, len(d.symbols)-NumSpecial)
	for i := NumSpecial; i < len(d.symbols); i++ {
		entries = append(entries, entry{d.symbols[i], d.counts[i], i})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].order < entries[j].order
	})

	d.symbols = d.symbols[:NumSpecial]
	d.counts = d.counts[:NumSpecial]
	d.indices = make(map[string]int, len(entries)+NumSpecial)
	for i, w := range d.symbols {
		d.indices[w] = i
	}
	for _, e := range entries {
		if threshold > 0 && e.count < threshold {
			continue
		}
		if nwords > 0 && len(d.symbols)-NumSpecial >= nwords {
			break
		}
		d.indices[e.sym] = len(d.symbols)
		d.symbols = append(d.symbols, e.sym)
		d.counts = append(d.counts, e.count)
	}
}

// Load reads a dictionary file from path.
func Load(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Read parses dictionary lines from r.
func Read(r io.Reader) (*Dictionary, error) {
	d := New()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		sep := strings.LastIndexByte(line, ' ')
		if sep < 0 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedLine, lineno, line)
		}
		token := line[:sep]
		count, err := strconv.Atoi(line[sep+1:])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad count %q", ErrMalformedLine, lineno, line[sep+1:])
		}
		if _, ok := d.indices[token]; ok {
			return nil, fmt.Errorf("%w: line %d: duplicate token %q", ErrMalformedLine, lineno, token)
		}
		d.AddSymbol(token, count)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return d, nil
}

// Save writes the dictionary to path in "token count" format, specials
// excluded, preserving current entry order.
func (d *Dictionary) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dictionary: %w", err)
	}
	defer f.Close()
	if err := d.Write(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Write writes the non-special entries to w.
func (d *Dictionary) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := NumSpecial; i < len(d.symbols); i++ {
		if _, err := fmt.Fprintf(bw, "%s %d\n", d.symbols[i], d.counts[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
