// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nvim-latest/nvim-latest/internal/testutil"
	"github.com/nvim-latest/nvim-latest/pkg/types"
)

func TestRunFetch(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)
	inst, err := testInstallers(nil)(&Settings{Config: cfg, Logger: newLogger(&bytes.Buffer{}, false)}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("building installer: %v", err)
	}

	var stdout bytes.Buffer
	p := fetchParams{stdout: &stdout, installer: inst, loc: time.UTC}
	if err := runFetch(context.Background(), p); err != nil {
		t.Fatalf("runFetch: %v", err)
	}

	want := `Latest Release:
- Version: v0.11.0
- Date: 2025-03-26 14:18:46 +0000 (2025-03-26T14:18:46Z)
Assets:
- nvim-linux-x86_64.appimage (2.00 KB)
- nvim-linux-arm64.appimage (1.00 KB)
`
	if got := stdout.String(); got != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRunFetch_Verbose(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)
	inst, err := testInstallers(nil)(&Settings{Config: cfg, Logger: newLogger(&bytes.Buffer{}, false)}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("building installer: %v", err)
	}

	var stdout bytes.Buffer
	p := fetchParams{stdout: &stdout, installer: inst, verbose: true, loc: time.UTC}
	if err := runFetch(context.Background(), p); err != nil {
		t.Fatalf("runFetch: %v", err)
	}

	if !strings.Contains(stdout.String(), "42 downloads, uploaded by github-actions[bot]") {
		t.Errorf("verbose output missing asset details:\n%s", stdout.String())
	}
}

func TestFetchCommand_Tag(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, testutil.FakeRelease{
		Tag:    "v0.10.4",
		Assets: []testutil.FakeAsset{{Name: testAsset, Content: []byte("old")}},
	})
	cfg := newTestConfig(t, srv.URL)

	stdout, stderr, err := executeCommand(t, Dependencies{Config: stubConfig{cfg: cfg}}, "fetch", "--tag", "v0.10.4")
	if err != nil {
		t.Fatalf("fetch: %v\nstderr: %s", err, stderr)
	}

	for _, want := range []string{"Release:\n", "- Version: v0.10.4", "- Date: N/A (N/A)", "- " + testAsset + " (0.00 KB)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout %q does not contain %q", stdout, want)
		}
	}
	if strings.Contains(stdout, "Latest Release:") {
		t.Errorf("tagged fetch should not claim to be the latest release:\n%s", stdout)
	}
}

func TestFetchCommand_ReleaseNotFound(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)

	stdout, stderr, err := executeCommand(t, Dependencies{Config: stubConfig{cfg: cfg}}, "fetch", "--tag", "v9.9.9")
	assertExitCode(t, err, types.ExitUserError)

	if stdout != "" {
		t.Errorf("expected empty stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "release not found") {
		t.Errorf("stderr %q does not mention the missing release", stderr)
	}
}

func TestFetchCommand_VerboseFromConfig(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	cfg := newTestConfig(t, srv.URL)
	cfg.UI.Verbose = true

	stdout, stderr, err := executeCommand(t, Dependencies{Config: stubConfig{cfg: cfg}}, "fetch")
	if err != nil {
		t.Fatalf("fetch: %v\nstderr: %s", err, stderr)
	}
	if !strings.Contains(stdout, "42 downloads") {
		t.Errorf("ui.verbose should enable asset details:\n%s", stdout)
	}
}
