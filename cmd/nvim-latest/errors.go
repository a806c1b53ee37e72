// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io"
	"io/fs"
	"net"
	"net/url"

	"github.com/nvim-latest/nvim-latest/internal/alternatives"
	"github.com/nvim-latest/nvim-latest/internal/config"
	"github.com/nvim-latest/nvim-latest/internal/github"
	"github.com/nvim-latest/nvim-latest/internal/installer"
	"github.com/nvim-latest/nvim-latest/internal/issue"
	"github.com/nvim-latest/nvim-latest/pkg/types"
)

// classifyError maps an error to its exit code and the issue page that
// explains it. Users can fix exit code 1 failures themselves.
func classifyError(err error) (types.ExitCode, issue.Id) {
	var (
		rateErr   *github.RateLimitError
		statusErr *github.StatusError
		cmdErr    *alternatives.CommandError
		urlErr    *url.Error
		netErr    net.Error
	)

	switch {
	case errors.Is(err, installer.ErrUnsupportedPlatform):
		return types.ExitUserError, issue.UnsupportedPlatformId
	case errors.Is(err, installer.ErrAssetNotFound):
		return types.ExitUserError, issue.AssetNotFoundId
	case errors.Is(err, github.ErrReleaseNotFound):
		return types.ExitUserError, issue.ReleaseNotFoundId
	case errors.Is(err, alternatives.ErrNotAvailable):
		return types.ExitUserError, issue.AlternativesNotAvailableId
	case errors.Is(err, alternatives.ErrInvalidArgument), errors.Is(err, errUnknownFormat):
		return types.ExitUserError, 0
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrConfigNotFound):
		return types.ExitUserError, issue.ConfigLoadFailedId
	case errors.Is(err, fs.ErrPermission):
		return types.ExitUserError, issue.PermissionDeniedId
	case errors.Is(err, fs.ErrExist):
		return types.ExitUserError, issue.FileExistsId
	case errors.Is(err, fs.ErrNotExist):
		return types.ExitUserError, issue.FileNotFoundId
	case errors.As(err, &rateErr):
		return types.ExitFailure, issue.RateLimitedId
	case errors.As(err, &cmdErr):
		return types.ExitFailure, issue.AlternativesFailedId
	case errors.As(err, &statusErr),
		errors.As(err, &urlErr),
		errors.As(err, &netErr),
		errors.Is(err, io.ErrUnexpectedEOF):
		return types.ExitFailure, issue.NetworkFailedId
	default:
		return types.ExitFailure, 0
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
