package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// LoadFile reads a raw corpus file: one dialogue per line, turns separated
// by the eou marker. Blank lines are skipped.
func LoadFile(path, eou string) ([]Dialogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()

	dialogues, err := ReadAll(f, eou)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dialogues, nil
}

// ReadAll parses dialogues from r.
func ReadAll(r io.Reader, eou string) ([]Dialogue, error) {
	scanner := bufio.NewScanner(r)
	// Dialogues can run long; the default 64K token limit is not enough.
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var dialogues []Dialogue
	for scanner.Scan() {
		d, err := ParseLine(scanner.Text(), eou)
		if err != nil {
			continue // blank line
		}
		dialogues = append(dialogues, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return dialogues, nil
}
