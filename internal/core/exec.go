package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrCommandTimeout is returned when a command exceeds its deadline.
var ErrCommandTimeout = errors.New("command timed out")

// waitDelay bounds how long Run waits for output pipes to close once the
// command has been killed.
const waitDelay = time.Second

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external programs. Scan probes depend on this interface
// so tests can substitute canned output for du, find, and docker.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, program string, args ...string) (*Result, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by real subprocesses.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes program with args and captures stdout and stderr.
//
// A non-zero exit still returns the captured Result alongside the error:
// du and find exit 1 when they hit an unreadable subdirectory but their
// stdout is still meaningful. A timeout returns ErrCommandTimeout and a
// missing binary returns an error wrapping exec.ErrNotFound.
func (ExecRunner) Run(ctx context.Context, timeout time.Duration, program string, args ...string) (*Result, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Children that inherit the output pipes would otherwise keep Run
	// waiting after the deadline kills the direct child.
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err == nil {
		return result, nil
	}

	if ctx.Err() != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return result, fmt.Errorf("%s: %w after %s", program, ErrCommandTimeout, timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, fmt.Errorf("%s exited with code %d: %w", program, result.ExitCode, err)
	}

	result.ExitCode = -1
	return result, fmt.Errorf("%s: %w", program, err)
}

// IsExitError reports whether err came from a program that ran and exited
// non-zero, as opposed to one that never started or was killed by a timeout.
func IsExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && !errors.Is(err, ErrCommandTimeout)
}
