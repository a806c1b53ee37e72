// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nvim-latest/nvim-latest/internal/github"
	"github.com/nvim-latest/nvim-latest/internal/installer"
)

// fetchParams bundles the dependencies and flags for the fetch command.
type fetchParams struct {
	stdout    io.Writer
	installer *installer.Installer
	tag       string
	verbose   bool
	loc       *time.Location // nil means time.Local
}

func newFetchCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Show the latest release and its assets",
		Long: `Show the latest Neovim release and the files attached to it.

With --verbose every asset also shows its download count and uploader.`,
		Example: `  # Show the latest release
  nvim-latest fetch

  # Show a specific release
  nvim-latest fetch --tag v0.10.4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settingsFrom(cmd.Context())
			tag, _ := cmd.Flags().GetString("tag")

			inst, err := app.Installers(s, cmd.ErrOrStderr())
			if err != nil {
				return failure(cmd.ErrOrStderr(), s, "fetch release information", err)
			}

			p := fetchParams{
				stdout:    cmd.OutOrStdout(),
				installer: inst,
				tag:       tag,
				verbose:   s.Verbose,
			}
			if err := runFetch(cmd.Context(), p); err != nil {
				return failure(cmd.ErrOrStderr(), s, "fetch release information", err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("tag", "t", "", "release tag to show instead of the latest")

	return cmd
}

// runFetch prints the release summary.
func runFetch(ctx context.Context, p fetchParams) error {
	release, err := p.installer.Release(ctx, p.tag)
	if err != nil {
		return err
	}

	heading := "Latest Release:"
	if p.tag != "" {
		heading = "Release:"
	}

	fmt.Fprintln(p.stdout, heading)
	fmt.Fprintf(p.stdout, "- Version: %s\n", release.TagName)
	fmt.Fprintf(p.stdout, "- Date: %s (%s)\n",
		installer.FormatDate(release.PublishedAt, p.loc), installer.RawDate(release.PublishedAt))

	fmt.Fprintln(p.stdout, "Assets:")
	for _, a := range release.Assets {
		if p.verbose {
			fmt.Fprintf(p.stdout, "- %s (%s) %s\n", a.Name, installer.FormatSize(a.Size), VerboseStyle.Render(assetDetails(a)))
			continue
		}
		fmt.Fprintf(p.stdout, "- %s (%s)\n", a.Name, installer.FormatSize(a.Size))
	}

	return nil
}

// assetDetails renders "[1,234 downloads, uploaded by login]".
func assetDetails(a github.Asset) string {
	details := humanize.Comma(a.DownloadCount) + " downloads"
	if a.Uploader != nil && a.Uploader.Login != "" {
		details += ", uploaded by " + a.Uploader.Login
	}
	return "[" + details + "]"
}
