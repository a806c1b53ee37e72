// SPDX-License-Identifier: MPL-2.0

// Package installer selects the release asset for the running platform and
// installs, updates or removes the downloaded executable.
//
// Install never overwrites: the asset is streamed into a temporary file next
// to the target, made executable and renamed into place. Update replaces an
// existing executable through go-update, which keeps the previous file until
// the new one is in place and rolls back on failure.
package installer
