// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the nvim-latest command tree.
//
// Each command is built by a newXCommand(app) constructor that reads its
// flags into a params struct and hands it to a runX function. The runX
// functions hold the behaviour and are what the tests drive.
package cmd
