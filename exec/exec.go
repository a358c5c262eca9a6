// Package exec runs external processes under a bounded timeout and captures
// their combined output for use as verification evidence. It wraps os/exec
// with a small context-aware API; a timeout or crash surfaces as data on the
// capture, never as a panic, so the evidence collector can report it as an
// evidentiary failure.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a capture when the caller does not set one.
// Evidence runs are test executions; anything slower than this is reported
// as a timeout rather than waited on.
const DefaultTimeout = 30 * time.Second

// Command describes one process to capture.
type Command struct {
	// Path is the name or path of the binary to execute (required).
	Path string

	// Args are the command-line arguments (optional).
	Args []string

	// Dir is the working directory for the process (optional).
	Dir string

	// Env specifies the environment in "KEY=value" form (optional).
	// If nil, the process inherits the parent environment.
	Env []string

	// Timeout bounds the execution. Zero means DefaultTimeout; a negative
	// value disables the bound entirely (the parent context still applies).
	Timeout time.Duration
}

// Capture holds what one process run produced.
type Capture struct {
	// Output is the interleaved stdout and stderr of the process, in the
	// order the process wrote it.
	Output []byte

	// ExitCode is the process exit status. Zero means success. When the
	// process was killed by the timeout, ExitCode is -1 and TimedOut is set.
	ExitCode int

	// TimedOut reports that the bound elapsed and the process was killed.
	TimedOut bool

	// Duration is the wall-clock execution time.
	Duration time.Duration
}

// Ok returns true if the process ran to completion with a zero exit status.
func (c *Capture) Ok() bool {
	return c != nil && !c.TimedOut && c.ExitCode == 0
}

// Run executes the command and captures its combined output.
//
// A non-zero exit status and a timeout are not errors: both return a
// populated Capture so the caller can fold them into an evidence result.
// Only failures to start the process at all (binary not found, permission
// denied) return an error.
//
// Example:
//
//	cap, err := exec.Run(ctx, exec.Command{
//		Path:    "go",
//		Args:    []string{"test", "-run", "TestChargeIdempotency", "./..."},
//		Dir:     workspace,
//		Timeout: 30 * time.Second,
//	})
//	if err != nil {
//		// the test binary could not be started at all
//	}
//	if !cap.Ok() {
//		// the test ran and failed, or timed out
//	}
func Run(ctx context.Context, cmd Command) (*Capture, error) {
	if cmd.Path == "" {
		return nil, errors.New("command path is required")
	}

	timeout := cmd.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	proc := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	if cmd.Dir != "" {
		proc.Dir = cmd.Dir
	}
	if cmd.Env != nil {
		proc.Env = cmd.Env
	}

	// One buffer for both streams keeps the interleaving the process
	// produced, which is what a verifier wants to read back.
	var combined bytes.Buffer
	proc.Stdout = &combined
	proc.Stderr = &combined

	start := time.Now()
	runErr := proc.Run()

	capture := &Capture{
		Output:   combined.Bytes(),
		Duration: time.Since(start),
	}

	if runErr == nil {
		return capture, nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		capture.TimedOut = true
		capture.ExitCode = -1
		return capture, nil
	}
	if ctx.Err() == context.Canceled {
		capture.ExitCode = -1
		return capture, fmt.Errorf("command cancelled")
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		capture.ExitCode = exitErr.ExitCode()
		return capture, nil
	}

	return capture, fmt.Errorf("command execution failed: %w", runErr)
}

// BinaryExists checks if a binary exists in the system PATH.
func BinaryExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
