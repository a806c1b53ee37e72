// SPDX-License-Identifier: MPL-2.0

package alternatives

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Output is the captured result of one command run.
	Output struct {
		Stdout   string
		Stderr   string
		ExitCode int
	}

	// Runner locates and runs external commands. Run reports a non-zero exit
	// through Output.ExitCode; its error is reserved for commands that could
	// not be started at all.
	Runner interface {
		LookPath(file string) (string, error)
		Run(ctx context.Context, name string, args ...string) (Output, error)
	}

	// ExecRunner runs commands on the host.
	ExecRunner struct {
		execCommand ExecCommandFunc
		lookPath    func(string) (string, error)
	}

	// ExecRunnerOption configures an ExecRunner.
	ExecRunnerOption func(*ExecRunner)
)

// WithExecCommand replaces exec.CommandContext.
func WithExecCommand(fn ExecCommandFunc) ExecRunnerOption {
	return func(r *ExecRunner) {
		if fn != nil {
			r.execCommand = fn
		}
	}
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn func(string) (string, error)) ExecRunnerOption {
	return func(r *ExecRunner) {
		if fn != nil {
			r.lookPath = fn
		}
	}
}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner(opts ...ExecRunnerOption) *ExecRunner {
	r := &ExecRunner{
		execCommand: exec.CommandContext,
		lookPath:    exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LookPath searches PATH for file.
func (r *ExecRunner) LookPath(file string) (string, error) {
	return r.lookPath(file)
}

// Run executes name with args, capturing stdout and stderr separately.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.execCommand(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	default:
		return out, err
	}
}
