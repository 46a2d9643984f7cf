package dict

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionary_Specials(t *testing.T) {
	d := New()

	assert.Equal(t, NumSpecial, d.Len())
	assert.Equal(t, 0, d.Pad())
	assert.Equal(t, 1, d.Eos())
	assert.Equal(t, 2, d.Unk())
	assert.Equal(t, PadWord, d.Symbol(d.Pad()))
	assert.Equal(t, EosWord, d.Symbol(d.Eos()))
	assert.Equal(t, UnkWord, d.Symbol(d.Unk()))
}

func TestDictionary_FileIndexRule(t *testing.T) {
	// A token on 0-based file line i must resolve to index i + NumSpecial.
	input := "hello 10\nworld 7\n__eou__ 5\n"
	d, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, FileIndex(0), d.Index("hello"))
	assert.Equal(t, FileIndex(1), d.Index("world"))
	assert.Equal(t, FileIndex(2), d.Index("__eou__"))

	idx, err := d.StrictIndex("__eou__")
	require.NoError(t, err)
	assert.Equal(t, 5, idx)
}

func TestDictionary_UnknownFallback(t *testing.T) {
	d := New()
	d.AddSymbol("a", 1)

	assert.Equal(t, d.Unk(), d.Index("missing"))

	_, err := d.StrictIndex("missing")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestDictionary_Finalize(t *testing.T) {
	tests := []struct {
		name      string
		counts    map[string]int
		threshold int
		nwords    int
		want      []string
	}{
		{
			name:   "sorted by count desc",
			counts: map[string]int{"rare": 1, "common": 9, "mid": 4},
			want:   []string{"common", "mid", "rare"},
		},
		{
			name:      "threshold drops rare",
			counts:    map[string]int{"rare": 1, "common": 9, "mid": 4},
			threshold: 2,
			want:      []string{"common", "mid"},
		},
		{
			name:   "nwords caps size",
			counts: map[string]int{"rare": 1, "common": 9, "mid": 4},
			nwords: 1,
			want:   []string{"common"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			// Fixed insertion order so ties are deterministic.
			for _, w := range []string{"rare", "common", "mid"} {
				d.AddSymbol(w, tt.counts[w])
			}
			d.Finalize(tt.threshold, tt.nwords)

			var got []string
			for i := NumSpecial; i < d.Len(); i++ {
				got = append(got, d.Symbol(i))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDictionary_RoundTrip(t *testing.T) {
	d := New()
	d.AddSymbol("the", 120)
	d.AddSymbol("cat", 30)
	d.AddSymbol("__eou__", 200)
	d.Finalize(0, 0)

	path := filepath.Join(t.TempDir(), "dict.res.txt")
	require.NoError(t, d.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, d.Len(), loaded.Len())
	for i := 0; i < d.Len(); i++ {
		assert.Equal(t, d.Symbol(i), loaded.Symbol(i))
		assert.Equal(t, d.Count(i), loaded.Count(i))
	}
	// Highest count first.
	assert.Equal(t, "__eou__", loaded.Symbol(NumSpecial))
}

func TestRead_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing count", input: "hello\n"},
		{name: "bad count", input: "hello abc\n"},
		{name: "duplicate token", input: "hello 3\nhello 4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrMalformedLine)
		})
	}
}
