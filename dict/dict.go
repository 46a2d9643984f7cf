// Package dict provides the shared token dictionary for dialogue data.
//
// This package wraps the internal dictionary implementation and provides
// a clean public API for vocabulary handling.
//
// A dictionary file holds one "token count" pair per line, most frequent
// first. The training framework reserves three indices (<pad>, </s>,
// <unk>) before the file entries, so the token on 0-based line i has
// index i + dict.NumSpecial; FileIndex encodes the rule.
//
// Example usage:
//
//	import "github.com/csda-ml/csda/dict"
//
//	d, err := dict.Load("data-bin/dd/dict.res.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eou, err := d.StrictIndex("__eou__")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("--eou", eou)
package dict

import (
	"github.com/csda-ml/csda/internal/dict"
)

// Reserved special tokens and the reserved-index count.
const (
	PadWord    = dict.PadWord
	EosWord    = dict.EosWord
	UnkWord    = dict.UnkWord
	NumSpecial = dict.NumSpecial
)

// Dictionary maps tokens to integer indices and back.
type Dictionary = dict.Dictionary

// Common errors.
var (
	ErrMalformedLine = dict.ErrMalformedLine
	ErrUnknownToken  = dict.ErrUnknownToken
)

// New returns an empty dictionary containing only the reserved specials.
func New() *Dictionary {
	return dict.New()
}

// Load reads a dictionary file from path.
func Load(path string) (*Dictionary, error) {
	return dict.Load(path)
}

// FileIndex converts a 0-based dictionary-file line number into the index
// the framework assigns to that token.
func FileIndex(line int) int {
	return dict.FileIndex(line)
}
