// SPDX-License-Identifier: MPL-2.0

// Package config loads nvim-latest settings.
//
// Built-in defaults are registered with Viper, then overlaid by an optional
// CUE file validated against the embedded #Config schema, then by
// NVIM_LATEST_* environment variables. Command-line flags are applied on top
// by the cmd package.
package config
