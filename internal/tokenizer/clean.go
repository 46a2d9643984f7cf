package tokenizer

import "strings"

// CleanTokens normalizes a token sequence before scoring.
//
// Tokens are lowercased, a trailing end-of-sentence artifact ("eos" or
// "</s>") is dropped, as is a leading underscore marker left over from
// subword detokenization. An empty result collapses to a single "." so
// metrics stay defined. Scoring applies it to hypotheses and references
// alike, keeping casing consistent on both sides.
func CleanTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok != "" {
			out = append(out, tok)
		}
	}
	for len(out) > 0 {
		last := out[len(out)-1]
		if last != "eos" && last != "</s>" {
			break
		}
		out = out[:len(out)-1]
	}
	for len(out) > 0 && (out[0] == "_" || out[0] == spaceMarker) {
		out = out[1:]
	}
	if len(out) == 0 {
		return []string{"."}
	}
	return out
}
