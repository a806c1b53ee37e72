// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nvim-latest/nvim-latest/internal/installer"
)

// installParams bundles the dependencies and flags for the install command.
type installParams struct {
	stdout    io.Writer
	installer *installer.Installer
	path      string
	tag       string
}

func newInstallCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Download the AppImage and make it executable",
		Long: `Download the AppImage built for this machine and install it as an
executable file. An existing file at the target path is never overwritten;
use 'update' to replace it.`,
		Example: `  # Install the latest release to /usr/local/bin/nvim.appimage
  sudo nvim-latest install

  # Install a pinned release under your home directory
  nvim-latest install --tag v0.10.4 --path ~/.local/bin --filename nvim`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())
			tag, _ := cmd.Flags().GetString("tag")

			inst, err := app.Installers(s, cmd.ErrOrStderr())
			if err != nil {
				return failure(cmd.ErrOrStderr(), s, "install Neovim", err)
			}

			p := installParams{
				stdout:    cmd.OutOrStdout(),
				installer: inst,
				path:      s.Config.TargetPath(),
				tag:       tag,
			}
			if err := runInstall(cmd.Context(), p); err != nil {
				return failure(cmd.ErrOrStderr(), s, "install Neovim", err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("tag", "t", "", "release tag to install instead of the latest")

	return cmd
}

func runInstall(ctx context.Context, p installParams) error {
	res, err := p.installer.Install(ctx, p.path, p.tag)
	if err != nil {
		return err
	}

	fmt.Fprintf(p.stdout, "Neovim %s installed successfully:\n", res.Release.TagName)
	fmt.Fprintf(p.stdout, "- %s\n", res.Path)
	return nil
}
