// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on setup errors:
// environment and home directory management, file fixtures and a fake
// GitHub release server.
package testutil
