// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// versionProbeTimeout bounds how long an installed binary may take to print
// its version.
const versionProbeTimeout = 10 * time.Second

//nolint:gochecknoglobals // Compiled once.
var versionPattern = regexp.MustCompile(`v?\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?`)

// VersionProbe reports the version of the executable at path.
type VersionProbe func(ctx context.Context, path string) (string, error)

// ExecVersionProbe runs `path --version` and extracts the first semantic
// version in its output.
func ExecVersionProbe(ctx context.Context, path string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "--version")
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %s --version: %w", path, err)
	}

	v := ParseVersion(stdout.String())
	if v == "" {
		return "", fmt.Errorf("no version found in output of %s --version", path)
	}
	return v, nil
}

// ParseVersion returns the first semantic version in text, normalized with a
// "v" prefix, or "" when there is none.
func ParseVersion(text string) string {
	m := versionPattern.FindString(text)
	if m == "" {
		return ""
	}
	if !strings.HasPrefix(m, "v") {
		m = "v" + m
	}
	return m
}

// isOutdated reports whether installed is older than latest. Versions that
// are not valid semver cannot be ordered and count as outdated.
func isOutdated(installed, latest string) bool {
	installed = ParseVersion(installed)
	latest = ParseVersion(latest)
	if !semver.IsValid(installed) || !semver.IsValid(latest) {
		return true
	}
	return semver.Compare(installed, latest) < 0
}
