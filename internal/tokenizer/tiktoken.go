package tokenizer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// spaceMarker replaces the leading space a byte-level BPE piece may carry,
// so pieces survive space-joined file output. GPT-2 convention.
const spaceMarker = "Ġ"

// TikToken wraps the pkoukk/tiktoken-go library for BPE tokenization.
//
// Supported encodings include "cl100k_base", "p50k_base" and "r50k_base".
type TikToken struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikToken creates a TikToken tokenizer with the specified encoding.
func NewTikToken(encodingName string) (*TikToken, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikToken{
		encoding: encoding,
		name:     encodingName,
	}, nil
}

// Tokenize encodes text and returns one string per BPE piece. Spaces inside
// pieces become the Ġ marker; other whitespace is dropped.
func (t *TikToken) Tokenize(text string) ([]string, error) {
	ids := t.encoding.Encode(text, nil, nil)

	pieces := make([]string, 0, len(ids))
	for _, id := range ids {
		piece := t.encoding.Decode([]int{id})
		piece = strings.ReplaceAll(piece, " ", spaceMarker)
		piece = strings.ReplaceAll(piece, "\n", "")
		piece = strings.ReplaceAll(piece, "\t", "")
		if piece == "" {
			continue
		}
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

// Name returns "tiktoken:<encoding>".
func (t *TikToken) Name() string { return "tiktoken:" + t.name }
