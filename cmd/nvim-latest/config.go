// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nvim-latest/nvim-latest/internal/config"
)

// Config dump formats.
const (
	formatCUE  = "cue"
	formatTOML = "toml"
)

// annotationConfigOptional marks commands that run when the file named by
// --config does not exist yet.
const annotationConfigOptional = "config-optional"

var errUnknownFormat = errors.New("unknown format")

// newConfigCommand creates the `nvim-latest config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage nvim-latest configuration",
		Long: `Manage nvim-latest configuration.

Configuration is stored in:
  - Linux: $XDG_CONFIG_HOME/nvim-latest/config.cue (~/.config/nvim-latest/config.cue)
  - macOS: ~/Library/Application Support/nvim-latest/config.cue
  - Windows: %APPDATA%\nvim-latest\config.cue

Every key can also be set through an environment variable, for example
NVIM_LATEST_INSTALL_DIR or NVIM_LATEST_HTTP_RETRIES.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())
			if err := showConfig(cmd.OutOrStdout(), s); err != nil {
				return failure(cmd.ErrOrStderr(), s, "show configuration", err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "init",
		Annotations: map[string]string{annotationConfigOptional: "true"},
		Short:       "Create the default configuration file",
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())
			if err := initConfig(cmd.OutOrStdout(), s); err != nil {
				return failure(cmd.ErrOrStderr(), s, "create configuration", err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Annotations: map[string]string{annotationConfigOptional: "true"},
		Short:       "Show the configuration file path",
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())
			path, err := config.FilePath(loadOptions(s))
			if err != nil {
				return failure(cmd.ErrOrStderr(), s, "locate configuration", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())
			format, _ := cmd.Flags().GetString("format")
			if err := dumpConfig(cmd.OutOrStdout(), s.Config, format); err != nil {
				return failure(cmd.ErrOrStderr(), s, "dump configuration", err)
			}
			return nil
		},
	}
	dumpCmd.Flags().String("format", formatCUE, "output format: cue or toml")
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func loadOptions(s *Settings) config.LoadOptions {
	return config.LoadOptions{ConfigFilePath: s.ConfigFile}
}

func showConfig(w io.Writer, s *Settings) error {
	cfg := s.Config

	path, err := config.FilePath(loadOptions(s))
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if fileExistsCheck(path) {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	section := func(name string, kv ...string) {
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(name))
		for i := 0; i+1 < len(kv); i += 2 {
			fmt.Fprintf(w, "  %s: %s\n", kv[i], valueStyle.Render(kv[i+1]))
		}
		fmt.Fprintln(w)
	}

	section("source",
		"owner", cfg.Source.Owner,
		"repo", cfg.Source.Repo,
		"api_url", cfg.Source.APIURL,
		"token_env", cfg.Source.TokenEnv)
	section("install",
		"filename", cfg.Install.Filename,
		"dir", cfg.Install.Dir,
		"block_size", strconv.Itoa(cfg.Install.BlockSize),
		"target", cfg.TargetPath())

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("assets"))
	if len(cfg.Assets) == 0 {
		fmt.Fprintf(w, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for _, a := range cfg.Assets {
		fmt.Fprintf(w, "  - %s %s: %s\n", a.OS, a.Arch, valueStyle.Render(a.Name))
	}
	fmt.Fprintln(w)

	section("alternatives",
		"link", cfg.Alternatives.Link,
		"name", cfg.Alternatives.Name,
		"priority", strconv.Itoa(cfg.Alternatives.Priority))
	section("http",
		"timeout", cfg.HTTP.Timeout,
		"retries", strconv.Itoa(cfg.HTTP.Retries))
	section("ui",
		"color_scheme", cfg.UI.ColorScheme.String(),
		"verbose", strconv.FormatBool(cfg.UI.Verbose))

	return nil
}

func initConfig(w io.Writer, s *Settings) error {
	path, created, err := config.CreateDefaultConfig(loadOptions(s))
	if err != nil {
		return err
	}

	if !created {
		fmt.Fprintf(w, "Configuration already exists at %s\n", path)
		return nil
	}

	fmt.Fprintf(w, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func dumpConfig(w io.Writer, cfg *config.Config, format string) error {
	switch format {
	case formatCUE:
		fmt.Fprint(w, config.GenerateCUE(cfg))
		return nil
	case formatTOML:
		b, err := config.EncodeTOML(cfg)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("%w %q: must be %q or %q", errUnknownFormat, format, formatCUE, formatTOML)
	}
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
