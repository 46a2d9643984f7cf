package genout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `2023-01-01 | INFO | fairseq_cli.generate | loading model
S-2	hi there __eou__ hello
T-2	how are you ?
H-2	-0.5231	i am fine thanks
H-2	-0.9100	worse beam entry
S-0	good morning
T-0	morning !
H-0	-0.1200	morning !
S-10	bye
T-10	see you
H-10	-1.3000	see you later
Generate test with beam=5: BLEU4 = 3.64
`

func TestParse_OrdersByNumericID(t *testing.T) {
	out, err := Parse(strings.NewReader(sampleLog))
	require.NoError(t, err)
	require.Equal(t, 3, out.Len())

	hyps := out.Hypotheses()
	// Numeric order 0, 2, 10 -- not lexical order 0, 10, 2.
	assert.Equal(t, []string{"morning", "!"}, hyps[0])
	assert.Equal(t, []string{"i", "am", "fine", "thanks"}, hyps[1])
	assert.Equal(t, []string{"see", "you", "later"}, hyps[2])

	targets := out.Targets()
	require.Len(t, targets, 3)
	assert.Equal(t, [][]string{{"morning", "!"}}, targets[0])
	assert.Equal(t, [][]string{{"how", "are", "you", "?"}}, targets[1])
}

func TestParse_KeepsTopBeam(t *testing.T) {
	out, err := Parse(strings.NewReader(sampleLog))
	require.NoError(t, err)
	assert.Equal(t, []string{"i", "am", "fine", "thanks"}, out.Hypotheses()[1])
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "missing tab", line: "H-3"},
		{name: "bad id", line: "T-x\tfoo"},
		{name: "bad score", line: "H-3\tnot_a_score\ttok"},
		{name: "missing hypothesis field", line: "H-3\t-0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.line + "\n"))
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestLoadRefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.refs")
	content := "how are you ?\tfine and you ?\nsee you\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	refs, err := LoadRefs(path)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, [][]string{{"how", "are", "you", "?"}, {"fine", "and", "you", "?"}}, refs[0])
	assert.Equal(t, [][]string{{"see", "you"}}, refs[1])
}

func TestPairRefs_CountMismatch(t *testing.T) {
	out, err := Parse(strings.NewReader(sampleLog))
	require.NoError(t, err)

	assert.NoError(t, out.PairRefs(make([][][]string, 3)))
	assert.ErrorIs(t, out.PairRefs(make([][][]string, 2)), ErrCountMismatch)
}
