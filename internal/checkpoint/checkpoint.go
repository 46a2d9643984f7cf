// Package checkpoint fetches and inspects checkpoints produced by the
// external framework.
//
// Fetch downloads a published checkpoint and verifies its SHA-256 while
// streaming, so a corrupted or truncated download never lands at the
// destination path. List inventories a save directory the way the
// framework lays it out (checkpoint_best.pt, checkpoint_last.pt,
// checkpoint<N>.pt).
package checkpoint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/csda-ml/csda/internal/ctxlog"
)

// Common errors.
var (
	ErrChecksumMismatch = errors.New("checksum mismatch: download may be corrupted")
	ErrBadStatus        = errors.New("unexpected HTTP status")
)

// Fetch downloads url to dest, verifying the hex-encoded SHA-256
// wantSHA256 when non-empty. The file is written next to dest and renamed
// into place only after verification succeeds.
func Fetch(ctx context.Context, client *http.Client, url, dest, wantSHA256 string) error {
	if client == nil {
		client = http.DefaultClient
	}
	log := ctxlog.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch checkpoint: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s fetching %s", ErrBadStatus, resp.Status, url)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create destination dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".partial-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, h), resp.Body)
	if err != nil {
		return fmt.Errorf("failed to download checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to finish download: %w", err)
	}

	if wantSHA256 != "" {
		got := hex.EncodeToString(h.Sum(nil))
		if !strings.EqualFold(got, wantSHA256) {
			return fmt.Errorf("%w: got %s, want %s", ErrChecksumMismatch, got, wantSHA256)
		}
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("failed to move checkpoint into place: %w", err)
	}
	log.Info("fetched checkpoint", "url", url, "dest", dest, "bytes", n)
	return nil
}

// Info describes one checkpoint file in a save directory.
type Info struct {
	Name string
	Path string
	Size int64

	// Best and Last flag the framework's special checkpoint names.
	Best bool
	Last bool
}

// List inventories the checkpoint*.pt files under dir, sorted by name
// with checkpoint_best.pt and checkpoint_last.pt first.
func List(dir string) ([]Info, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read save dir: %w", err)
	}

	var infos []Info
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "checkpoint") || !strings.HasSuffix(name, ".pt") {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", name, err)
		}
		infos = append(infos, Info{
			Name: name,
			Path: filepath.Join(dir, name),
			Size: fi.Size(),
			Best: name == "checkpoint_best.pt",
			Last: name == "checkpoint_last.pt",
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		ri, rj := rank(infos[i]), rank(infos[j])
		if ri != rj {
			return ri < rj
		}
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

func rank(i Info) int {
	switch {
	case i.Best:
		return 0
	case i.Last:
		return 1
	default:
		return 2
	}
}

// Best returns the path of checkpoint_best.pt under dir, falling back to
// checkpoint_last.pt, or an error when the directory holds no checkpoints.
func Best(dir string) (string, error) {
	infos, err := List(dir)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("no checkpoints in %s", dir)
	}
	return infos[0].Path, nil
}
