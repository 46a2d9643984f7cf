// Package tokenizer provides the tokenizers used when turning raw dialogue
// text into the whitespace-tokenized files the training framework consumes.
//
// Two implementations are available:
//   - Space: splits on Unicode whitespace; the default for corpora that
//     ship pre-tokenized (e.g. DailyDialog).
//   - TikToken: byte-pair encoding via OpenAI's tiktoken vocabularies.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTokenizer is returned by New for unrecognized specs.
var ErrUnknownTokenizer = errors.New("unknown tokenizer")

// Tokenizer converts raw text into a sequence of token strings.
//
// The output tokens are written space-joined to the preprocessed files, so
// implementations must never produce tokens containing whitespace.
type Tokenizer interface {
	// Tokenize splits text into tokens.
	Tokenize(text string) ([]string, error)

	// Name returns the tokenizer name, e.g. "space" or "tiktoken:cl100k_base".
	Name() string
}

// Space tokenizes on Unicode whitespace.
type Space struct{}

// NewSpace returns the whitespace tokenizer.
func NewSpace() Space { return Space{} }

// Tokenize splits text into whitespace-delimited fields.
func (Space) Tokenize(text string) ([]string, error) {
	return strings.Fields(text), nil
}

// Name returns "space".
func (Space) Name() string { return "space" }

// New builds a tokenizer from a spec string.
//
// Supported specs:
//   - "space"
//   - "tiktoken:<encoding>", e.g. "tiktoken:cl100k_base"
func New(spec string) (Tokenizer, error) {
	switch {
	case spec == "" || spec == "space":
		return NewSpace(), nil
	case strings.HasPrefix(spec, "tiktoken:"):
		return NewTikToken(strings.TrimPrefix(spec, "tiktoken:"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTokenizer, spec)
	}
}
