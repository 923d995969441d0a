// Package runner executes external diagnostic commands under a deadline.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// killDelay is how long a cancelled child gets to exit after SIGTERM
// before it is killed.
const killDelay = 5 * time.Second

// Output is the captured result of one command invocation.
type Output struct {
	Lines    []string
	ExitCode int
}

// TimeoutError reports that the command did not finish within the deadline.
// The child process has been terminated by the time this is returned.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %d seconds", int(e.Timeout.Seconds()))
}

// LaunchError reports that the command could not be started at all.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("cannot run %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Run executes name with args, capturing combined stdout and stderr as an
// ordered line sequence. A non-zero exit status is not an error here; it is
// reported through Output.ExitCode and classification decides what it means.
// On deadline expiry the child is sent SIGTERM, then killed, and a
// *TimeoutError is returned instead of partial output.
func Run(ctx context.Context, timeout time.Duration, name string, args ...string) (*Output, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = killDelay

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	start := time.Now()
	err := cmd.Run()
	slog.Debug("command finished",
		"command", name,
		"args", strings.Join(args, " "),
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)

	if runCtx.Err() == context.DeadlineExceeded {
		return nil, &TimeoutError{Timeout: timeout}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &LaunchError{Path: name, Err: err}
		}
		return &Output{Lines: splitLines(buf.String()), ExitCode: exitErr.ExitCode()}, nil
	}

	return &Output{Lines: splitLines(buf.String())}, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
