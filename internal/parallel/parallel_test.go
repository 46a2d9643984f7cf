package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor_CoversAllIndices(t *testing.T) {
	tests := []struct {
		name string
		n    int
		cfg  Config
	}{
		{
			name: "sequential fallback below chunk size",
			n:    10,
			cfg:  Config{Enabled: true, NumWorkers: 4, MinChunkSize: 64},
		},
		{
			name: "parallel",
			n:    1000,
			cfg:  Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16},
		},
		{
			name: "disabled",
			n:    1000,
			cfg:  Config{Enabled: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make([]int32, tt.n)
			For(tt.n, func(i int) {
				atomic.AddInt32(&seen[i], 1)
			}, tt.cfg)

			for i, c := range seen {
				assert.Equal(t, int32(1), c, "index %d", i)
			}
		})
	}
}

func TestFor_Zero(t *testing.T) {
	called := false
	For(0, func(int) { called = true }, DefaultConfig())
	assert.False(t, called)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Positive(t, cfg.NumWorkers)
	assert.Positive(t, cfg.MinChunkSize)
}
