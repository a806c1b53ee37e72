// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"runtime"

	"github.com/nvim-latest/nvim-latest/pkg/platform"
)

//nolint:gochecknoglobals // Test seams for runtime.GOOS and runtime.GOARCH.
var (
	goos   = runtime.GOOS
	goarch = runtime.GOARCH
)

type (
	// Platform identifies a host by its `uname -s` and `uname -m` names.
	Platform struct {
		System  string // e.g. "Linux"
		Machine string // e.g. "x86_64"
	}

	// AssetEntry binds one platform to the release asset built for it.
	AssetEntry struct {
		Platform Platform
		Name     string
	}

	// AssetTable maps platforms to release asset names. Lookups are exact.
	AssetTable []AssetEntry
)

// String renders "System Machine".
func (p Platform) String() string {
	return p.System + " " + p.Machine
}

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() Platform {
	return Platform{
		System:  platform.SystemName(goos),
		Machine: platform.MachineName(goarch),
	}
}

// DefaultAssetTable returns the Neovim AppImage table.
func DefaultAssetTable() AssetTable {
	return AssetTable{
		{Platform: Platform{System: platform.SystemLinux, Machine: platform.MachineX8664}, Name: "nvim-linux-x86_64.appimage"},
		{Platform: Platform{System: platform.SystemLinux, Machine: platform.MachineAarch64}, Name: "nvim-linux-arm64.appimage"},
	}
}

// Lookup returns the asset name for p, or an UnsupportedPlatformError.
func (t AssetTable) Lookup(p Platform) (string, error) {
	for _, e := range t {
		if e.Platform == p {
			return e.Name, nil
		}
	}
	return "", &UnsupportedPlatformError{Platform: p}
}
