package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Streams are the standard streams handed to a child process
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CommandRunner executes external commands
type CommandRunner interface {
	// Run starts name attached to streams and waits for it. The returned
	// error is non-nil only when no exit status could be obtained.
	Run(ctx context.Context, streams Streams, name string, args ...string) (int, error)

	// Output runs name and returns its standard output
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run implements CommandRunner. When the streams are *os.File values the
// child inherits the descriptors directly, so its output is not buffered.
func (ExecRunner) Run(ctx context.Context, streams Streams, name string, args ...string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = streams.Stdin
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// -1 means the process was terminated by a signal
		if code := exitErr.ExitCode(); code >= 0 {
			return code, nil
		}
		return -1, fmt.Errorf("%s terminated: %w", name, err)
	}

	return -1, fmt.Errorf("failed to start %s: %w", name, err)
}

// Output implements CommandRunner
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return out, fmt.Errorf("%s %v: %w", name, args, err)
	}
	return out, nil
}
