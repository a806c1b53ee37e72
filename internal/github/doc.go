// SPDX-License-Identifier: MPL-2.0

// Package github reads release metadata from the GitHub REST API and streams
// release assets.
//
// The package is organized as follows:
//   - client.go: Client, its options, and the latest/tagged release endpoints
//   - types.go: Release, Asset and User records and their JSON wire mapping
//   - retry.go: optional exponential backoff for transient HTTP failures
package github
