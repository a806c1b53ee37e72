// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nvim-latest/nvim-latest/internal/installer"
)

type uninstallParams struct {
	stdout    io.Writer
	installer *installer.Installer
	path      string
}

func newUninstallCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the installed AppImage",
		Long: `Remove the file at the target path. Alternatives registered for it are
left alone; remove them first with 'alternatives --uninstall'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())

			inst, err := app.Installers(s, cmd.ErrOrStderr())
			if err != nil {
				return failure(cmd.ErrOrStderr(), s, "uninstall Neovim", err)
			}

			p := uninstallParams{
				stdout:    cmd.OutOrStdout(),
				installer: inst,
				path:      s.Config.TargetPath(),
			}
			if err := runUninstall(p); err != nil {
				return failure(cmd.ErrOrStderr(), s, "uninstall Neovim", err)
			}
			return nil
		},
	}
}

func runUninstall(p uninstallParams) error {
	if err := p.installer.Uninstall(p.path); err != nil {
		return err
	}

	fmt.Fprintln(p.stdout, "Neovim uninstalled successfully:")
	fmt.Fprintf(p.stdout, "- %s\n", p.path)
	return nil
}
