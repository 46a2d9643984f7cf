package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpace_Tokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple",
			text: "hello , how are you ?",
			want: []string{"hello", ",", "how", "are", "you", "?"},
		},
		{
			name: "collapses whitespace",
			text: "  a \t b \n c ",
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewSpace().Tokenize(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Specs(t *testing.T) {
	tok, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "space", tok.Name())

	tok, err = New("space")
	require.NoError(t, err)
	assert.Equal(t, "space", tok.Name())

	_, err = New("moses")
	assert.ErrorIs(t, err, ErrUnknownTokenizer)
}

func TestTikToken_Tokenize(t *testing.T) {
	tok, err := NewTikToken("cl100k_base")
	require.NoError(t, err)
	assert.Equal(t, "tiktoken:cl100k_base", tok.Name())

	pieces, err := tok.Tokenize("hello world")
	require.NoError(t, err)
	require.NotEmpty(t, pieces)
	for _, p := range pieces {
		assert.NotContains(t, p, " ")
		assert.NotContains(t, p, "\n")
	}
}

func TestTikToken_UnknownEncoding(t *testing.T) {
	_, err := NewTikToken("no_such_encoding")
	assert.Error(t, err)
}

func TestCleanTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []string
	}{
		{
			name:   "lowercases and trims",
			tokens: []string{"Hello", " WORLD "},
			want:   []string{"hello", "world"},
		},
		{
			name:   "drops trailing eos",
			tokens: []string{"fine", "thanks", "eos"},
			want:   []string{"fine", "thanks"},
		},
		{
			name:   "drops trailing sentence marker",
			tokens: []string{"ok", "</s>"},
			want:   []string{"ok"},
		},
		{
			name:   "drops leading underscore",
			tokens: []string{"_", "sure"},
			want:   []string{"sure"},
		},
		{
			name:   "empty collapses to period",
			tokens: []string{"eos"},
			want:   []string{"."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTokens(tt.tokens))
		})
	}
}
