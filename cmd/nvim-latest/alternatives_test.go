// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nvim-latest/nvim-latest/internal/alternatives"
	"github.com/nvim-latest/nvim-latest/pkg/types"
)

func TestAlternativesCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		out      alternatives.Output
		wantArgs func(target string) []string
		wantOut  func(target string) string
	}{
		{
			name: "install with defaults",
			args: []string{"--install"},
			wantArgs: func(target string) []string {
				return []string{"--install", "/usr/bin/vi", "vi", target, "50"}
			},
			wantOut: func(target string) string {
				return "Alternatives 'vi' installed successfully:\n- " + target + " (50)\n"
			},
		},
		{
			name: "install with overrides",
			args: []string{"-i", "-L", "/usr/bin/vim", "-N", "vim", "-P", "100"},
			wantArgs: func(target string) []string {
				return []string{"--install", "/usr/bin/vim", "vim", target, "100"}
			},
			wantOut: func(target string) string {
				return "Alternatives 'vim' installed successfully:\n- " + target + " (100)\n"
			},
		},
		{
			name: "uninstall",
			args: []string{"--uninstall"},
			wantArgs: func(target string) []string {
				return []string{"--remove", "vi", target}
			},
			wantOut: func(target string) string {
				return "Alternatives 'vi' uninstalled successfully:\n- " + target + "\n"
			},
		},
		{
			name: "list prints stdout verbatim",
			args: []string{"-l"},
			out:  alternatives.Output{Stdout: "/usr/bin/vim.basic\n/usr/local/bin/nvim.appimage\n"},
			wantArgs: func(string) []string {
				return []string{"--list", "vi"}
			},
			wantOut: func(string) string {
				return "/usr/bin/vim.basic\n/usr/local/bin/nvim.appimage\n"
			},
		},
		{
			name: "query prints stdout verbatim",
			args: []string{"--query", "--name", "editor"},
			out:  alternatives.Output{Stdout: "Name: editor\nStatus: auto\n"},
			wantArgs: func(string) []string {
				return []string{"--query", "editor"}
			},
			wantOut: func(string) string {
				return "Name: editor\nStatus: auto\n"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newTestConfig(t, "http://127.0.0.1:1")
			target := filepath.Join(cfg.Install.Dir, "nvim.appimage")
			runner := &fakeAltRunner{out: tt.out}

			deps := Dependencies{Config: stubConfig{cfg: cfg}, Alternatives: testAlternatives(runner)}
			stdout, stderr, err := executeCommand(t, deps, append([]string{"alternatives"}, tt.args...)...)
			if err != nil {
				t.Fatalf("alternatives: %v\nstderr: %s", err, stderr)
			}

			if len(runner.calls) != 1 {
				t.Fatalf("expected one update-alternatives call, got %d", len(runner.calls))
			}
			wantCall := append([]string{"/usr/bin/update-alternatives"}, tt.wantArgs(target)...)
			if !slices.Equal(runner.calls[0], wantCall) {
				t.Errorf("call = %q, want %q", runner.calls[0], wantCall)
			}
			if want := tt.wantOut(target); stdout != want {
				t.Errorf("stdout = %q, want %q", stdout, want)
			}
		})
	}
}

func TestAlternativesCommand_ConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, "http://127.0.0.1:1")
	cfg.Alternatives.Link = "/usr/bin/editor"
	cfg.Alternatives.Name = "editor"
	cfg.Alternatives.Priority = 10
	runner := &fakeAltRunner{}

	deps := Dependencies{Config: stubConfig{cfg: cfg}, Alternatives: testAlternatives(runner)}
	if _, stderr, err := executeCommand(t, deps, "alternatives", "-i", "-P", "70"); err != nil {
		t.Fatalf("alternatives: %v\nstderr: %s", err, stderr)
	}

	target := filepath.Join(cfg.Install.Dir, "nvim.appimage")
	want := []string{"/usr/bin/update-alternatives", "--install", "/usr/bin/editor", "editor", target, "70"}
	if len(runner.calls) != 1 || !slices.Equal(runner.calls[0], want) {
		t.Errorf("calls = %q, want [%q]", runner.calls, want)
	}
}

func TestAlternativesCommand_ModeFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no mode", args: nil},
		{name: "two modes", args: []string{"--list", "--install"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newTestConfig(t, "http://127.0.0.1:1")
			runner := &fakeAltRunner{}

			deps := Dependencies{Config: stubConfig{cfg: cfg}, Alternatives: testAlternatives(runner)}
			_, _, err := executeCommand(t, deps, append([]string{"alternatives"}, tt.args...)...)
			if err == nil {
				t.Fatal("expected a flag error")
			}
			if len(runner.calls) != 0 {
				t.Errorf("update-alternatives must not run, got %q", runner.calls)
			}
		})
	}
}

func TestAlternativesCommand_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		runner     *fakeAltRunner
		args       []string
		wantCode   types.ExitCode
		wantStderr string
	}{
		{
			name:       "command missing",
			runner:     &fakeAltRunner{missing: true},
			args:       []string{"--list"},
			wantCode:   types.ExitUserError,
			wantStderr: "command 'update-alternatives' is not available",
		},
		{
			name:       "non-zero exit",
			runner:     &fakeAltRunner{out: alternatives.Output{ExitCode: 2, Stderr: "update-alternatives: error: no alternatives for vi\n"}},
			args:       []string{"--query"},
			wantCode:   types.ExitFailure,
			wantStderr: "no alternatives for vi",
		},
		{
			name:       "start failure",
			runner:     &fakeAltRunner{runErr: errors.New("exec format error")},
			args:       []string{"--list"},
			wantCode:   types.ExitFailure,
			wantStderr: "exec format error",
		},
		{
			name:       "invalid name",
			runner:     &fakeAltRunner{},
			args:       []string{"--list", "--name", "my editor"},
			wantCode:   types.ExitUserError,
			wantStderr: "whitespace",
		},
		{
			name:       "negative priority",
			runner:     &fakeAltRunner{},
			args:       []string{"--install", "--priority=-1"},
			wantCode:   types.ExitUserError,
			wantStderr: "priority",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := newTestConfig(t, "http://127.0.0.1:1")

			deps := Dependencies{Config: stubConfig{cfg: cfg}, Alternatives: testAlternatives(tt.runner)}
			stdout, stderr, err := executeCommand(t, deps, append([]string{"alternatives"}, tt.args...)...)
			assertExitCode(t, err, tt.wantCode)

			if stdout != "" {
				t.Errorf("expected empty stdout, got %q", stdout)
			}
			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr %q does not contain %q", stderr, tt.wantStderr)
			}
		})
	}
}
