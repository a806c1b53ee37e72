// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nvim-latest/nvim-latest/internal/config"
	"github.com/nvim-latest/nvim-latest/internal/issue"
	"github.com/nvim-latest/nvim-latest/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	filename   string
	path       string
	configFile string
	verbose    bool
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Install, update and uninstall the Neovim AppImage",
		Long: TitleStyle.Render(config.AppName) + SubtitleStyle.Render(" - Install, update and uninstall the Neovim AppImage") + `

nvim-latest downloads the AppImage built for this machine from the latest
Neovim release on GitHub, keeps it current, and can register it with
update-alternatives.

` + SubtitleStyle.Render("Examples:") + `
  nvim-latest fetch                    Show the latest release and its assets
  sudo nvim-latest install             Install to /usr/local/bin/nvim.appimage
  nvim-latest update --check           Check for a newer release
  sudo nvim-latest alternatives -i     Register the AppImage as 'vi'
  nvim-latest config init              Create a default configuration file`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := resolveSettings(cmd, app, flags)
			if err != nil {
				return err
			}
			cmd.SetContext(contextWithSettings(cmd.Context(), s))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.filename, "filename", "f", config.DefaultFilename, "executable filename")
	pf.StringVarP(&flags.path, "path", "p", config.DefaultInstallDir, "installation directory")
	pf.StringVar(&flags.configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/nvim-latest/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newFetchCommand(app),
		newInstallCommand(app),
		newUpdateCommand(app),
		newUninstallCommand(app),
		newAlternativesCommand(app),
		newConfigCommand(),
	)

	return rootCmd
}

// resolveSettings loads the configuration and applies the flags the user
// set explicitly on top of it. A broken config file is reported and replaced
// by the defaults, unless it was named with --config. A missing --config file
// is tolerated only by commands annotated with annotationConfigOptional.
func resolveSettings(cmd *cobra.Command, app *App, flags *rootFlags) (*Settings, error) {
	stderr := cmd.ErrOrStderr()

	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configFile})
	if err != nil {
		missingOK := errors.Is(err, config.ErrConfigNotFound) && cmd.Annotations[annotationConfigOptional] != ""
		switch {
		case missingOK:
		case flags.configFile != "":
			return nil, failure(stderr, &Settings{Verbose: flags.verbose}, "read configuration", err)
		default:
			fmt.Fprintln(stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		}
		cfg = config.DefaultConfig()
	}

	f := cmd.Flags()
	if f.Changed("filename") {
		cfg.Install.Filename = flags.filename
	}
	if f.Changed("path") {
		cfg.Install.Dir = flags.path
	}

	s := &Settings{
		Config:     cfg,
		Verbose:    flags.verbose || cfg.UI.Verbose,
		ConfigFile: flags.configFile,
	}
	s.Logger = newLogger(stderr, s.Verbose)

	if err := cfg.Validate(); err != nil {
		return nil, failure(stderr, s, "apply command-line flags", err)
	}

	s.Logger.Debug("settings resolved", "target", cfg.TargetPath(), "repo", cfg.Source.Owner+"/"+cfg.Source.Repo)

	return s, nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
}

// failure prints err with its help page and wraps it in an ExitError
// carrying the matching exit code.
func failure(stderr io.Writer, s *Settings, operation string, err error) error {
	code, id := classifyError(err)

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		ae = issue.NewErrorContext().WithOperation(operation).Wrap(err).Build()
	}

	styled := ErrorStyle.Render("Error: ") + ae.Format(s.Verbose) + "\n"
	renderServiceError(stderr, newServiceError(ae, id, styled), glamourStyle(s))

	return &ExitError{Code: code, Err: ae}
}

func glamourStyle(s *Settings) string {
	if s.Config == nil || s.Config.UI.ColorScheme == "" {
		return string(config.ColorSchemeAuto)
	}
	return string(s.Config.UI.ColorScheme)
}

// handleError prints errors that did not come from a command. Commands
// report their own failures before returning an ExitError.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command tree and exits with the code of the first
// failure. It is called by main.main().
func Execute() {
	rootCmd := newRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		os.Exit(int(exitCode(err)))
	}
}

// exitCode returns the process status for an error returned by the command
// tree. Errors that did not come from a command, such as flag parsing
// failures, are user errors.
func exitCode(err error) types.ExitCode {
	if err == nil {
		return types.ExitOK
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return types.ExitUserError
	}
	if exitErr.Code == types.ExitOK || exitErr.Code.Validate() != nil {
		return types.ExitFailure
	}
	return exitErr.Code
}
