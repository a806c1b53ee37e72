// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nvim-latest/nvim-latest/internal/installer"
)

// updateParams bundles the dependencies and flags for the update command,
// enabling the core logic in runUpdate to be tested without a real Cobra
// command or live GitHub API calls.
type updateParams struct {
	stdout      io.Writer
	installer   *installer.Installer
	confirm     ConfirmFunc
	interactive bool
	path        string
	tag         string // target release (empty = latest)
	check       bool   // --check: report availability without installing
	force       bool   // --force: replace even when current
	yes         bool   // --yes: skip confirmation prompt
}

func newUpdateCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Replace the installed AppImage with a newer release",
		Long: `Replace the installed AppImage with the latest release, or the release
named by --tag.

The installed version is read from '<file> --version'. When it cannot be
determined the file is treated as outdated. The replacement is atomic and the
previous file is restored if it fails.`,
		Example: `  # Check for a newer release without installing
  nvim-latest update --check

  # Update without the confirmation prompt
  sudo nvim-latest update --yes

  # Reinstall the current release
  sudo nvim-latest update --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())

			tag, _ := cmd.Flags().GetString("tag")
			checkFlag, _ := cmd.Flags().GetBool("check")
			forceFlag, _ := cmd.Flags().GetBool("force")
			yesFlag, _ := cmd.Flags().GetBool("yes")

			inst, err := app.Installers(s, cmd.ErrOrStderr())
			if err != nil {
				return failure(cmd.ErrOrStderr(), s, "update Neovim", err)
			}

			p := updateParams{
				stdout:      cmd.OutOrStdout(),
				installer:   inst,
				confirm:     app.Confirm,
				interactive: app.Interactive(),
				path:        s.Config.TargetPath(),
				tag:         tag,
				check:       checkFlag,
				force:       forceFlag,
				yes:         yesFlag,
			}
			if err := runUpdate(cmd.Context(), p); err != nil {
				return failure(cmd.ErrOrStderr(), s, "update Neovim", err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("tag", "t", "", "release tag to install instead of the latest")
	cmd.Flags().Bool("check", false, "check for an update without installing")
	cmd.Flags().Bool("force", false, "replace the file even when it is up to date")
	cmd.Flags().BoolP("yes", "y", false, "skip confirmation prompt")

	return cmd
}

// runUpdate is the core update logic, separated from Cobra for testability.
//
// Flow:
//  1. Compare the installed file with the selected release.
//  2. With --check, report the comparison and return.
//  3. If up to date and not forced, report and return.
//  4. Confirm on an interactive terminal unless --yes, then replace.
func runUpdate(ctx context.Context, p updateParams) error {
	status, err := p.installer.Check(ctx, p.path, p.tag)
	if err != nil {
		return err
	}

	installed := status.Installed
	if installed == "" {
		installed = "unknown"
	}

	fmt.Fprintf(p.stdout, "Installed version: %s\n", installed)
	fmt.Fprintf(p.stdout, "Latest version:    %s\n", status.Latest)

	if p.check {
		if status.Outdated {
			fmt.Fprintf(p.stdout, "\nAn update is available: %s → %s\n", installed, status.Latest)
			fmt.Fprintln(p.stdout, "Run 'nvim-latest update' to install.")
		} else {
			fmt.Fprintln(p.stdout, "\nNeovim is up to date.")
		}
		return nil
	}

	if !status.Outdated && !p.force {
		fmt.Fprintln(p.stdout, "\nNeovim is up to date.")
		return nil
	}

	if !p.yes && p.interactive {
		confirmed, err := p.confirm(fmt.Sprintf("Update Neovim from %s to %s", installed, status.Latest))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(p.stdout, "Update cancelled.")
			return nil
		}
	}

	res, err := p.installer.Update(ctx, p.path, installer.UpdateOptions{Force: p.force, Status: status})
	if err != nil {
		return err
	}

	if res.UpToDate {
		fmt.Fprintln(p.stdout, "\nNeovim is up to date.")
		return nil
	}

	fmt.Fprintf(p.stdout, "\nNeovim %s updated successfully:\n", res.Release.TagName)
	fmt.Fprintf(p.stdout, "- %s\n", res.Path)
	return nil
}
