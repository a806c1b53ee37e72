// SPDX-License-Identifier: MPL-2.0

// Package platform maps Go's runtime identifiers to the uname-style names
// used by release asset tables.
//
// Release feeds name their binaries after `uname -s` and `uname -m`
// ("Linux", "x86_64", "aarch64") rather than GOOS/GOARCH, so lookups go
// through SystemName and MachineName.
package platform
