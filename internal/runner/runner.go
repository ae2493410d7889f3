// Package runner provides subprocess execution with argument-vector
// spawning, incremental output capture, and output size limits.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/google/uuid"
)

// Launcher executes a command and captures its output streams.
type Launcher struct {
	Timeout   time.Duration // zero means run to completion
	MaxOutput int           // bytes per stream
}

// Launch executes a command with the given argv. The first element is the
// binary name (resolved via PATH), and the rest are arguments passed as
// separate argv entries — never joined into a shell string.
//
// A non-nil error means the process could not be started (missing binary,
// permission denied); a process that started and exited, with any exit
// code, produces a Result and a nil error.
func (l *Launcher) Launch(ctx context.Context, argv []string, dir string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty argv")
	}

	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	maxOutput := l.MaxOutput
	if maxOutput <= 0 {
		maxOutput = 1 << 20
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir

	// The exec package feeds each stream to its writer chunk by chunk as
	// data arrives, so accumulation is incremental rather than a single
	// blocking read at exit.
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitWriter{buf: &stdout, limit: maxOutput}
	cmd.Stderr = &limitWriter{buf: &stderr, limit: maxOutput}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("launching %s: %w", argv[0], err)
	}

	waitErr := cmd.Wait()

	exitCode := 0
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			// I/O failure after a successful start; treat like a launch
			// error since no trustworthy exit status exists.
			return nil, fmt.Errorf("running %s: %w", argv[0], waitErr)
		}
		exitCode = exitErr.ExitCode()
	}

	return &Result{
		RunID:     uuid.New().String(),
		ExitCode:  exitCode,
		Stdout:    stdout.Bytes(),
		Stderr:    stderr.Bytes(),
		Truncated: stdout.Len() >= maxOutput || stderr.Len() >= maxOutput,
		Duration:  time.Since(started),
	}, nil
}

// limitWriter writes up to limit bytes to buf, then silently discards the rest.
type limitWriter struct {
	buf   *bytes.Buffer
	limit int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	remaining := w.limit - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil // discard
	}
	if len(p) > remaining {
		// Write only what fits, but report all bytes as consumed
		// to avoid short write errors from the stream copier.
		w.buf.Write(p[:remaining])
		return len(p), nil
	}
	return w.buf.Write(p)
}
