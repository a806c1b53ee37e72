// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nvim-latest/nvim-latest/internal/alternatives"
	"github.com/nvim-latest/nvim-latest/internal/config"
	"github.com/nvim-latest/nvim-latest/internal/github"
	"github.com/nvim-latest/nvim-latest/internal/installer"
)

type (
	settingsContextKey struct{}

	// Settings is the configuration resolved for one invocation: the loaded
	// config with explicitly set flags applied on top.
	Settings struct {
		Config  *config.Config
		Verbose bool
		Logger  *log.Logger
		// ConfigFile is the --config value, "" when unset.
		ConfigFile string
	}

	// InstallerFactory builds the installer used by fetch, install, update
	// and uninstall. progress receives the download bar.
	InstallerFactory func(s *Settings, progress io.Writer) (*installer.Installer, error)

	// AlternativesFactory builds the update-alternatives manager.
	AlternativesFactory func(s *Settings) (*alternatives.Manager, error)

	// ConfirmFunc asks a yes/no question and reports the answer.
	ConfirmFunc func(label string) (bool, error)

	// App wires CLI services and shared dependencies. Every command
	// constructor receives it and reaches the installer, the alternatives
	// manager and the config through it.
	App struct {
		Config       config.Provider
		Installers   InstallerFactory
		Alternatives AlternativesFactory
		Confirm      ConfirmFunc
		// Interactive reports whether Confirm may be used.
		Interactive func() bool
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config       config.Provider
		Installers   InstallerFactory
		Alternatives AlternativesFactory
		Confirm      ConfirmFunc
		Interactive  func() bool
		Stdout       io.Writer
		Stderr       io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Installers == nil {
		deps.Installers = func(s *Settings, progress io.Writer) (*installer.Installer, error) {
			return newInstaller(s, progress)
		}
	}
	if deps.Alternatives == nil {
		deps.Alternatives = func(s *Settings) (*alternatives.Manager, error) {
			return alternatives.New(alternatives.WithLogger(s.Logger))
		}
	}
	if deps.Confirm == nil {
		deps.Confirm = promptConfirm
	}
	if deps.Interactive == nil {
		deps.Interactive = stdinIsTerminal
	}

	return &App{
		Config:       deps.Config,
		Installers:   deps.Installers,
		Alternatives: deps.Alternatives,
		Confirm:      deps.Confirm,
		Interactive:  deps.Interactive,
		stdout:       deps.Stdout,
		stderr:       deps.Stderr,
	}
}

// newInstaller builds an installer from the resolved settings. extra options
// are applied last.
func newInstaller(s *Settings, progress io.Writer, extra ...installer.Option) (*installer.Installer, error) {
	cfg := s.Config

	timeout, err := cfg.HTTP.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	clientOpts := []github.ClientOption{
		github.WithHTTPClient(&http.Client{Timeout: timeout}),
		github.WithBaseURL(cfg.Source.APIURL),
		github.WithRepo(cfg.Source.Owner, cfg.Source.Repo),
		github.WithUserAgent(config.AppName + "/" + Version),
		github.WithLogger(s.Logger),
	}
	if cfg.HTTP.Retries > 0 {
		clientOpts = append(clientOpts, github.WithRetry(cfg.HTTP.Retries+1, 0))
	}
	if cfg.Source.TokenEnv != "" {
		if token := os.Getenv(cfg.Source.TokenEnv); token != "" {
			clientOpts = append(clientOpts, github.WithToken(token))
		}
	}

	opts := []installer.Option{
		installer.WithAssetTable(assetTable(cfg.Assets)),
		installer.WithBlockSize(cfg.Install.BlockSize),
		installer.WithProgress(installer.NewBarProgress(progress)),
		installer.WithLogger(s.Logger),
	}
	opts = append(opts, extra...)

	return installer.New(github.NewClient(clientOpts...), opts...), nil
}

func assetTable(entries []config.AssetConfig) installer.AssetTable {
	table := make(installer.AssetTable, 0, len(entries))
	for _, e := range entries {
		table = append(table, installer.AssetEntry{
			Platform: installer.Platform{System: e.OS, Machine: e.Arch},
			Name:     e.Name,
		})
	}
	return table
}

func contextWithSettings(ctx context.Context, s *Settings) context.Context {
	return context.WithValue(ctx, settingsContextKey{}, s)
}

// settingsFrom returns the settings stored by the root pre-run hook, or
// the built-in defaults when the hook did not run.
func settingsFrom(ctx context.Context) *Settings {
	if s, ok := ctx.Value(settingsContextKey{}).(*Settings); ok && s != nil {
		return s
	}
	return &Settings{Config: config.DefaultConfig(), Logger: log.New(io.Discard)}
}
