// Package launch executes rendered framework invocations.
//
// Each launch gets a short run ID used for log naming and for the
// ${run_id} recipe variable, the GPU assignment is passed through
// CUDA_VISIBLE_DEVICES, and the child's output is teed to a per-run log
// file so long training runs stay inspectable.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/csda-ml/csda/internal/ctxlog"
)

// ErrEmptyArgv is returned when there is nothing to run.
var ErrEmptyArgv = errors.New("empty argv")

// NewRunID returns a short unique run identifier.
func NewRunID() string {
	return uuid.NewString()[:8]
}

// Options configures a launch.
type Options struct {
	// GPUs sets CUDA_VISIBLE_DEVICES; nil leaves the environment alone.
	GPUs []int

	// LogDir, when set, receives a <runID>.log copy of the child output.
	LogDir string

	// RunID names the log file; NewRunID is used when empty.
	RunID string

	// Stdout and Stderr receive the child's output; defaults to the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes argv (binary first) and blocks until it exits. Cancelling
// ctx kills the child.
func Run(ctx context.Context, argv []string, opts Options) error {
	if len(argv) == 0 {
		return ErrEmptyArgv
	}
	if opts.RunID == "" {
		opts.RunID = NewRunID()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	log := ctxlog.FromContext(ctx)

	stdout, stderr := opts.Stdout, opts.Stderr
	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return fmt.Errorf("failed to create log dir: %w", err)
		}
		logPath := filepath.Join(opts.LogDir, opts.RunID+".log")
		f, err := os.Create(logPath)
		if err != nil {
			return fmt.Errorf("failed to create run log: %w", err)
		}
		defer f.Close()
		stdout = io.MultiWriter(stdout, f)
		stderr = io.MultiWriter(stderr, f)
		log.Info("teeing run output", "log", logPath)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = os.Environ()
	if opts.GPUs != nil {
		devs := make([]string, len(opts.GPUs))
		for i, g := range opts.GPUs {
			devs[i] = strconv.Itoa(g)
		}
		cmd.Env = append(cmd.Env, "CUDA_VISIBLE_DEVICES="+strings.Join(devs, ","))
	}

	log.Info("launching", "run_id", opts.RunID, "cmd", strings.Join(argv, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s exited: %w", argv[0], err)
	}
	return nil
}
