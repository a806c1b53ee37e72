// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// uname-style system and machine names.
const (
	SystemLinux   = "Linux"
	SystemDarwin  = "Darwin"
	SystemWindows = "Windows"

	MachineX8664   = "x86_64"
	MachineAarch64 = "aarch64"
	MachineI386    = "i386"
	MachineArmv7l  = "armv7l"
)

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	systemNames = map[string]string{
		Linux:     SystemLinux,
		Darwin:    SystemDarwin,
		Windows:   SystemWindows,
		"freebsd": "FreeBSD",
		"openbsd": "OpenBSD",
		"netbsd":  "NetBSD",
	}

	machineNames = map[string]string{
		"amd64":   MachineX8664,
		"arm64":   MachineAarch64,
		"386":     MachineI386,
		"arm":     MachineArmv7l,
		"ppc64le": "ppc64le",
		"s390x":   "s390x",
		"riscv64": "riscv64",
	}
)

// SystemName returns the `uname -s` spelling of a GOOS value. Unknown values
// are returned with their first letter upper-cased.
func SystemName(goos string) string {
	if name, ok := systemNames[goos]; ok {
		return name
	}
	if goos == "" {
		return ""
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}

// MachineName returns the `uname -m` spelling of a GOARCH value. Unknown
// values are returned unchanged.
func MachineName(goarch string) string {
	if name, ok := machineNames[goarch]; ok {
		return name
	}
	return goarch
}
