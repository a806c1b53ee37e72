// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nvim-latest/nvim-latest/internal/alternatives"
	"github.com/nvim-latest/nvim-latest/internal/config"
)

type (
	alternativesMode int

	// alternativesParams bundles the dependencies and flags for the
	// alternatives command.
	alternativesParams struct {
		stdout   io.Writer
		manager  *alternatives.Manager
		mode     alternativesMode
		link     string
		name     string
		path     string
		priority int
	}
)

const (
	alternativesList alternativesMode = iota + 1
	alternativesQuery
	alternativesInstall
	alternativesUninstall
)

func newAlternativesCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alternatives",
		Short: "Register the AppImage with update-alternatives",
		Long: `Manage the update-alternatives entry that points a command name at the
installed AppImage. Exactly one of --list, --query, --install or --uninstall
must be given. Installing and uninstalling usually require root.`,
		Example: `  # Make 'vi' run the AppImage
  sudo nvim-latest alternatives --install

  # Register it as 'vim' with a higher priority
  sudo nvim-latest alternatives -i -L /usr/bin/vim -N vim -P 100

  # Show the alternatives for 'vi'
  nvim-latest alternatives --query`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())
			f := cmd.Flags()

			p := alternativesParams{
				stdout:   cmd.OutOrStdout(),
				mode:     selectedAlternativesMode(cmd),
				link:     s.Config.Alternatives.Link,
				name:     s.Config.Alternatives.Name,
				path:     s.Config.TargetPath(),
				priority: s.Config.Alternatives.Priority,
			}
			if f.Changed("link") {
				p.link, _ = f.GetString("link")
			}
			if f.Changed("name") {
				p.name, _ = f.GetString("name")
			}
			if f.Changed("priority") {
				p.priority, _ = f.GetInt("priority")
			}

			manager, err := app.Alternatives(s)
			if err != nil {
				return failure(cmd.ErrOrStderr(), s, "manage alternatives", err)
			}
			p.manager = manager

			if err := runAlternatives(cmd.Context(), p); err != nil {
				return failure(cmd.ErrOrStderr(), s, "manage alternatives", err)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolP("list", "l", false, "list the registered alternatives")
	f.BoolP("query", "q", false, "show the alternatives with their priorities")
	f.BoolP("install", "i", false, "register the installed AppImage")
	f.BoolP("uninstall", "u", false, "unregister the installed AppImage")
	f.StringP("link", "L", config.DefaultAlternativesLink, "symlink managed by update-alternatives")
	f.StringP("name", "N", config.DefaultAlternativesName, "alternatives group name")
	f.IntP("priority", "P", config.DefaultAlternativesPriority, "priority of the AppImage in the group")

	cmd.MarkFlagsMutuallyExclusive("list", "query", "install", "uninstall")
	cmd.MarkFlagsOneRequired("list", "query", "install", "uninstall")

	return cmd
}

func selectedAlternativesMode(cmd *cobra.Command) alternativesMode {
	f := cmd.Flags()
	switch {
	case f.Changed("list"):
		return alternativesList
	case f.Changed("query"):
		return alternativesQuery
	case f.Changed("install"):
		return alternativesInstall
	case f.Changed("uninstall"):
		return alternativesUninstall
	}
	return 0
}

func runAlternatives(ctx context.Context, p alternativesParams) error {
	switch p.mode {
	case alternativesList:
		res, err := p.manager.List(ctx, p.name)
		if err != nil {
			return err
		}
		fmt.Fprint(p.stdout, res.Stdout)

	case alternativesQuery:
		res, err := p.manager.Query(ctx, p.name)
		if err != nil {
			return err
		}
		fmt.Fprint(p.stdout, res.Stdout)

	case alternativesInstall:
		if _, err := p.manager.Install(ctx, p.link, p.name, p.path, p.priority); err != nil {
			return err
		}
		fmt.Fprintf(p.stdout, "Alternatives '%s' installed successfully:\n", p.name)
		fmt.Fprintf(p.stdout, "- %s (%d)\n", p.path, p.priority)

	case alternativesUninstall:
		if _, err := p.manager.Remove(ctx, p.name, p.path); err != nil {
			return err
		}
		fmt.Fprintf(p.stdout, "Alternatives '%s' uninstalled successfully:\n", p.name)
		fmt.Fprintf(p.stdout, "- %s\n", p.path)

	default:
		return errors.New("no alternatives action selected")
	}

	return nil
}
