// SPDX-License-Identifier: MPL-2.0

// Package alternatives wraps the Debian update-alternatives command.
//
// A Manager validates arguments, runs the command through a Runner and turns
// non-zero exits into *CommandError values that carry the command's trimmed
// stderr. ExecRunner runs the real binary on the host; tests substitute a
// fake or a container-backed Runner.
package alternatives
