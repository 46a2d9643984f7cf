package checkpoint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_VerifiesChecksum(t *testing.T) {
	payload := []byte("pretend this is a checkpoint")
	sum := sha256.Sum256(payload)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "checkpoint_best.pt")
	err := Fetch(context.Background(), srv.Client(), srv.URL, dest, hex.EncodeToString(sum[:]))
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestFetch_ChecksumMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("corrupted"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "checkpoint_best.pt")
	err := Fetch(context.Background(), srv.Client(), srv.URL, dest, "deadbeef")
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	// Nothing must land at dest on failure.
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "x.pt")
	err := Fetch(context.Background(), srv.Client(), srv.URL, dest, "")
	assert.ErrorIs(t, err, ErrBadStatus)
}

func TestList_OrdersSpecialsFirst(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"checkpoint3.pt", "checkpoint_last.pt", "checkpoint_best.pt", "train.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	infos, err := List(dir)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "checkpoint_best.pt", infos[0].Name)
	assert.True(t, infos[0].Best)
	assert.Equal(t, "checkpoint_last.pt", infos[1].Name)
	assert.True(t, infos[1].Last)
	assert.Equal(t, "checkpoint3.pt", infos[2].Name)
}

func TestBest(t *testing.T) {
	dir := t.TempDir()
	_, err := Best(dir)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "checkpoint_last.pt"), []byte("x"), 0o644))
	path, err := Best(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "checkpoint_last.pt"), path)
}
