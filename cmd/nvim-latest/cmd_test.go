// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"

	"github.com/nvim-latest/nvim-latest/internal/alternatives"
	"github.com/nvim-latest/nvim-latest/internal/config"
	"github.com/nvim-latest/nvim-latest/internal/installer"
	"github.com/nvim-latest/nvim-latest/internal/testutil"
	"github.com/nvim-latest/nvim-latest/pkg/types"
)

const (
	testOwner = "neovim"
	testRepo  = "neovim"
	testAsset = "nvim-linux-x86_64.appimage"
)

type (
	// stubConfig returns a copy of cfg, or err, from every Load.
	stubConfig struct {
		cfg *config.Config
		err error
	}

	// fakeAltRunner records update-alternatives invocations and replays a
	// canned Output.
	fakeAltRunner struct {
		missing bool
		out     alternatives.Output
		runErr  error
		calls   [][]string
	}
)

func (s stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := *s.cfg
	return &c, nil
}

func (f *fakeAltRunner) LookPath(file string) (string, error) {
	if f.missing {
		return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
	}
	return "/usr/bin/" + file, nil
}

func (f *fakeAltRunner) Run(_ context.Context, name string, args ...string) (alternatives.Output, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.out, f.runErr
}

// testRelease is the latest release served by newTestServer.
func testRelease() testutil.FakeRelease {
	return testutil.FakeRelease{
		Tag:         "v0.11.0",
		PublishedAt: "2025-03-26T14:18:46Z",
		Assets: []testutil.FakeAsset{
			{Name: testAsset, Content: bytes.Repeat([]byte("n"), 2048)},
			{Name: "nvim-linux-arm64.appimage", Content: bytes.Repeat([]byte("a"), 1024)},
		},
	}
}

func newTestServer(t *testing.T, others ...testutil.FakeRelease) *testutil.ReleaseServer {
	t.Helper()
	return testutil.NewReleaseServer(t, testOwner, testRepo, testRelease(), others...)
}

// newTestConfig points the defaults at apiURL and a fresh install directory.
func newTestConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Source.APIURL = apiURL
	cfg.Source.TokenEnv = ""
	cfg.Install.Dir = t.TempDir()
	cfg.Install.BlockSize = 512
	cfg.UI.ColorScheme = config.ColorSchemeDark
	return cfg
}

// testInstallers builds installers for Linux x86_64 that read the installed
// version from probe. A nil probe keeps ExecVersionProbe.
func testInstallers(probe installer.VersionProbe) InstallerFactory {
	return func(s *Settings, progress io.Writer) (*installer.Installer, error) {
		return newInstaller(s, progress,
			installer.WithPlatform(installer.Platform{System: "Linux", Machine: "x86_64"}),
			installer.WithVersionProbe(probe),
		)
	}
}

func staticProbe(version string) installer.VersionProbe {
	return func(context.Context, string) (string, error) {
		return version, nil
	}
}

func testAlternatives(r *fakeAltRunner) AlternativesFactory {
	return func(s *Settings) (*alternatives.Manager, error) {
		return alternatives.New(alternatives.WithRunner(r), alternatives.WithLogger(s.Logger))
	}
}

// executeCommand runs the command tree with args and returns what it wrote.
// Unset dependencies get inert test defaults.
func executeCommand(t *testing.T, deps Dependencies, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	deps.Stdout = &outBuf
	deps.Stderr = &errBuf
	if deps.Installers == nil {
		deps.Installers = testInstallers(nil)
	}
	if deps.Alternatives == nil {
		deps.Alternatives = testAlternatives(&fakeAltRunner{})
	}
	if deps.Interactive == nil {
		deps.Interactive = func() bool { return false }
	}
	if deps.Confirm == nil {
		deps.Confirm = func(label string) (bool, error) {
			t.Errorf("unexpected confirmation prompt %q", label)
			return false, nil
		}
	}

	root := newRootCommand(NewApp(deps))
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())

	return outBuf.String(), errBuf.String(), err
}

// assertExitCode fails the test unless err is an ExitError with code want.
func assertExitCode(t *testing.T, err error, want types.ExitCode) {
	t.Helper()

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	if exitErr.Code != want {
		t.Errorf("exit code = %d, want %d (error: %v)", exitErr.Code, want, err)
	}
}
