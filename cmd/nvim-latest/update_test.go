// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvim-latest/nvim-latest/internal/testutil"
	"github.com/nvim-latest/nvim-latest/pkg/types"
)

// setupInstalled writes an old executable at the default target of cfg.
func setupInstalled(t *testing.T, dir string) string {
	t.Helper()

	target := filepath.Join(dir, "nvim.appimage")
	testutil.MustWriteFile(t, target, []byte("old build"), 0o755)
	return target
}

func TestUpdateCommand_CheckMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		installed string
		want      []string
	}{
		{
			name:      "update available",
			installed: "v0.10.4",
			want:      []string{"Installed version: v0.10.4", "Latest version:    v0.11.0", "An update is available: v0.10.4 → v0.11.0"},
		},
		{
			name:      "up to date",
			installed: "v0.11.0",
			want:      []string{"Installed version: v0.11.0", "Neovim is up to date."},
		},
		{
			name:      "unknown version",
			installed: "",
			want:      []string{"Installed version: unknown", "An update is available: unknown → v0.11.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t)
			cfg := newTestConfig(t, srv.URL)
			target := setupInstalled(t, cfg.Install.Dir)

			deps := Dependencies{Config: stubConfig{cfg: cfg}, Installers: testInstallers(staticProbe(tt.installed))}
			stdout, stderr, err := executeCommand(t, deps, "update", "--check")
			if err != nil {
				t.Fatalf("update --check: %v\nstderr: %s", err, stderr)
			}

			for _, want := range tt.want {
				if !strings.Contains(stdout, want) {
					t.Errorf("stdout %q does not contain %q", stdout, want)
				}
			}
			if got := string(testutil.MustReadFile(t, target)); got != "old build" {
				t.Errorf("--check must not modify the file, got %q", got)
			}
		})
	}
}

func TestUpdateCommand_ReplacesOutdated(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)
	target := setupInstalled(t, cfg.Install.Dir)

	deps := Dependencies{Config: stubConfig{cfg: cfg}, Installers: testInstallers(staticProbe("v0.10.4"))}
	stdout, stderr, err := executeCommand(t, deps, "update", "--yes")
	if err != nil {
		t.Fatalf("update: %v\nstderr: %s", err, stderr)
	}

	if !strings.Contains(stdout, "Neovim v0.11.0 updated successfully:\n- "+target+"\n") {
		t.Errorf("unexpected stdout:\n%s", stdout)
	}
	if got := testutil.MustReadFile(t, target); !bytes.Equal(got, testRelease().Assets[0].Content) {
		t.Errorf("file was not replaced, got %d bytes", len(got))
	}
}

func TestUpdateCommand_UpToDate(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)
	target := setupInstalled(t, cfg.Install.Dir)

	deps := Dependencies{Config: stubConfig{cfg: cfg}, Installers: testInstallers(staticProbe("v0.11.0"))}
	stdout, _, err := executeCommand(t, deps, "update", "--yes")
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !strings.Contains(stdout, "Neovim is up to date.") {
		t.Errorf("unexpected stdout:\n%s", stdout)
	}
	if got := string(testutil.MustReadFile(t, target)); got != "old build" {
		t.Errorf("up-to-date file was replaced: %q", got)
	}
}

func TestUpdateCommand_Force(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)
	target := setupInstalled(t, cfg.Install.Dir)

	deps := Dependencies{Config: stubConfig{cfg: cfg}, Installers: testInstallers(staticProbe("v0.11.0"))}
	stdout, stderr, err := executeCommand(t, deps, "update", "--force", "--yes")
	if err != nil {
		t.Fatalf("update --force: %v\nstderr: %s", err, stderr)
	}

	if !strings.Contains(stdout, "updated successfully") {
		t.Errorf("unexpected stdout:\n%s", stdout)
	}
	if got := testutil.MustReadFile(t, target); !bytes.Equal(got, testRelease().Assets[0].Content) {
		t.Errorf("forced update did not replace the file")
	}
}

func TestUpdateCommand_Confirmation(t *testing.T) {
	t.Parallel()

	errPrompt := errors.New("prompt interrupted")

	tests := []struct {
		name        string
		answer      bool
		promptErr   error
		wantReplace bool
		wantOut     string
	}{
		{name: "accepted", answer: true, wantReplace: true, wantOut: "updated successfully"},
		{name: "declined", answer: false, wantOut: "Update cancelled."},
		{name: "interrupted", promptErr: errPrompt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newTestServer(t)
			cfg := newTestConfig(t, srv.URL)
			target := setupInstalled(t, cfg.Install.Dir)

			var labels []string
			deps := Dependencies{
				Config:      stubConfig{cfg: cfg},
				Installers:  testInstallers(staticProbe("v0.10.4")),
				Interactive: func() bool { return true },
				Confirm: func(label string) (bool, error) {
					labels = append(labels, label)
					return tt.answer, tt.promptErr
				},
			}

			stdout, _, err := executeCommand(t, deps, "update")

			if len(labels) != 1 || labels[0] != "Update Neovim from v0.10.4 to v0.11.0" {
				t.Errorf("prompt labels = %q", labels)
			}

			if tt.promptErr != nil {
				if !errors.Is(err, errPrompt) {
					t.Fatalf("expected prompt error, got %v", err)
				}
				assertExitCode(t, err, types.ExitFailure)
				return
			}
			if err != nil {
				t.Fatalf("update: %v", err)
			}

			if !strings.Contains(stdout, tt.wantOut) {
				t.Errorf("stdout %q does not contain %q", stdout, tt.wantOut)
			}
			replaced := string(testutil.MustReadFile(t, target)) != "old build"
			if replaced != tt.wantReplace {
				t.Errorf("replaced = %v, want %v", replaced, tt.wantReplace)
			}
		})
	}
}

func TestUpdateCommand_NonInteractiveSkipsPrompt(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)
	setupInstalled(t, cfg.Install.Dir)

	// executeCommand fails the test if Confirm is called.
	deps := Dependencies{Config: stubConfig{cfg: cfg}, Installers: testInstallers(staticProbe("v0.10.4"))}
	stdout, _, err := executeCommand(t, deps, "update")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !strings.Contains(stdout, "updated successfully") {
		t.Errorf("unexpected stdout:\n%s", stdout)
	}
}

func TestUpdateCommand_NotInstalled(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)

	deps := Dependencies{Config: stubConfig{cfg: cfg}, Installers: testInstallers(staticProbe("v0.10.4"))}
	stdout, stderr, err := executeCommand(t, deps, "update", "--yes")
	assertExitCode(t, err, types.ExitUserError)

	if stdout != "" {
		t.Errorf("expected empty stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "does not exist") {
		t.Errorf("stderr %q does not explain the failure", stderr)
	}
}
