// Package corpus implements the dialogue data model and the per-split file
// layout consumed by the training framework.
//
// A raw corpus file holds one dialogue per line, with utterances separated
// by the end-of-utterance marker. From each split three textual artifacts
// are derived:
//
//	<split>.pre  full turn history, eou-joined
//	<split>.cxt  all turns except the last
//	<split>.res  the final turn (the generation target)
//
// plus an optional <split>.z latent-evidence stream. For every dialogue the
// invariant pre == cxt + " " + eou + " " + res holds.
package corpus

import (
	"errors"
	"strings"
)

// DefaultEOU is the end-of-utterance marker used by the DailyDialog corpus.
const DefaultEOU = "__eou__"

// ErrEmptyLine is returned by ParseLine for lines with no utterances.
var ErrEmptyLine = errors.New("empty dialogue line")

// Dialogue is an ordered sequence of utterances (speaker turns).
type Dialogue struct {
	Turns []string
}

// ParseLine splits a raw corpus line on the eou marker.
//
// Empty turns (e.g. from a trailing marker) are dropped. Returns
// ErrEmptyLine when no turns remain.
func ParseLine(line, eou string) (Dialogue, error) {
	var turns []string
	for _, part := range strings.Split(line, eou) {
		part = strings.TrimSpace(part)
		if part != "" {
			turns = append(turns, part)
		}
	}
	if len(turns) == 0 {
		return Dialogue{}, ErrEmptyLine
	}
	return Dialogue{Turns: turns}, nil
}

// Context returns all turns except the last.
func (d Dialogue) Context() []string {
	if len(d.Turns) == 0 {
		return nil
	}
	return d.Turns[:len(d.Turns)-1]
}

// Response returns the final turn.
func (d Dialogue) Response() string {
	if len(d.Turns) == 0 {
		return ""
	}
	return d.Turns[len(d.Turns)-1]
}

// Pre renders the full turn history joined with the eou marker.
func (d Dialogue) Pre(eou string) string {
	return joinTurns(d.Turns, eou)
}

// Cxt renders the context turns joined with the eou marker.
func (d Dialogue) Cxt(eou string) string {
	return joinTurns(d.Context(), eou)
}

// Res renders the response turn.
func (d Dialogue) Res() string {
	return d.Response()
}

// Z renders the latent-evidence stream: the full dialogue, followed by any
// candidate responses.
func (d Dialogue) Z(eou string, candidates []string) string {
	parts := append([]string{}, d.Turns...)
	parts = append(parts, candidates...)
	return joinTurns(parts, eou)
}

// joinTurns joins turns with a single space on each side of the marker so
// that pre == cxt + " " + eou + " " + res holds verbatim on written lines.
func joinTurns(turns []string, eou string) string {
	return strings.Join(turns, " "+eou+" ")
}
