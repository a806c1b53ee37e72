// SPDX-License-Identifier: MPL-2.0

package alternatives

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"
)

// Command is the alternatives-management binary.
const Command = "update-alternatives"

var (
	// ErrNotAvailable is wrapped by the CommandError returned when Command is
	// not on PATH.
	ErrNotAvailable = fmt.Errorf("command '%s' is not available", Command)

	// ErrInvalidArgument is the sentinel error wrapped by InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")
)

type (
	// CommandError describes a failed update-alternatives invocation.
	CommandError struct {
		Args     []string // full argv, Command first
		ExitCode int      // -1 when the command never ran
		Stderr   string   // trimmed
		Err      error    // underlying cause when the command never ran
	}

	// InvalidArgumentError is returned before running anything when an
	// argument cannot be passed to update-alternatives.
	InvalidArgumentError struct {
		Field  string
		Value  string
		Reason string
	}

	// Result carries the command output of a successful operation.
	Result struct {
		Stdout string
		Stderr string
	}

	// Manager runs update-alternatives operations.
	Manager struct {
		runner Runner
		binary string // resolved path of Command
		logger *log.Logger
	}

	// Option configures a Manager.
	Option func(*Manager)
)

// Error returns the command's stderr, which already reads as a message.
func (e *CommandError) Error() string {
	switch {
	case e.Stderr != "":
		return e.Stderr
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("%s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	}
}

// Unwrap returns the underlying cause, if any.
func (e *CommandError) Unwrap() error { return e.Err }

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidArgument.
func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// WithRunner replaces the host ExecRunner.
func WithRunner(r Runner) Option {
	return func(m *Manager) {
		if r != nil {
			m.runner = r
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Manager. It fails with a *CommandError wrapping
// ErrNotAvailable when update-alternatives cannot be found.
func New(opts ...Option) (*Manager, error) {
	m := &Manager{
		runner: NewExecRunner(),
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}

	path, err := m.runner.LookPath(Command)
	if err != nil {
		m.logger.Debug("lookup failed", "command", Command, "error", err)
		return nil, &CommandError{Args: []string{Command}, ExitCode: -1, Err: ErrNotAvailable}
	}
	m.binary = path

	return m, nil
}

// List runs `update-alternatives --list name`.
func (m *Manager) List(ctx context.Context, name string) (*Result, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return m.run(ctx, "--list", name)
}

// Query runs `update-alternatives --query name`.
func (m *Manager) Query(ctx context.Context, name string) (*Result, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return m.run(ctx, "--query", name)
}

// Install runs `update-alternatives --install link name path priority`.
func (m *Manager) Install(ctx context.Context, link, name, path string, priority int) (*Result, error) {
	if err := validateAbs("link", link); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateAbs("path", path); err != nil {
		return nil, err
	}
	if priority < 0 {
		return nil, &InvalidArgumentError{Field: "priority", Value: strconv.Itoa(priority), Reason: "must not be negative"}
	}
	return m.run(ctx, "--install", link, name, path, strconv.Itoa(priority))
}

// Remove runs `update-alternatives --remove name path`.
func (m *Manager) Remove(ctx context.Context, name, path string) (*Result, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateAbs("path", path); err != nil {
		return nil, err
	}
	return m.run(ctx, "--remove", name, path)
}

func (m *Manager) run(ctx context.Context, args ...string) (*Result, error) {
	argv := append([]string{Command}, args...)
	m.logger.Debug("running", "argv", strings.Join(argv, " "))

	out, err := m.runner.Run(ctx, m.binary, args...)
	if err != nil {
		return nil, &CommandError{Args: argv, ExitCode: -1, Err: err}
	}

	if out.ExitCode != 0 {
		return nil, &CommandError{Args: argv, ExitCode: out.ExitCode, Stderr: strings.TrimSpace(out.Stderr)}
	}

	return &Result{Stdout: out.Stdout, Stderr: out.Stderr}, nil
}

func validateName(name string) error {
	switch {
	case name == "":
		return &InvalidArgumentError{Field: "name", Value: name, Reason: "must not be empty"}
	case strings.ContainsRune(name, '/'):
		return &InvalidArgumentError{Field: "name", Value: name, Reason: "must not contain '/'"}
	case strings.IndexFunc(name, unicode.IsSpace) >= 0:
		return &InvalidArgumentError{Field: "name", Value: name, Reason: "must not contain whitespace"}
	}
	return nil
}

func validateAbs(field, path string) error {
	if !filepath.IsAbs(path) {
		return &InvalidArgumentError{Field: field, Value: path, Reason: "must be an absolute path"}
	}
	return nil
}
