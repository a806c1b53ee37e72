// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user-supplied CUE documents against an embedded
// schema definition and decodes the result.
//
//	//go:embed config_schema.cue
//	var schema string
//
//	res, err := cueutil.ParseAndDecodeString[map[string]any](
//	    schema, data, "#Config",
//	    cueutil.WithFilename(path),
//	    cueutil.WithConcrete(false),
//	)
//
// Errors name the offending field in JSON-path form, prefixed by the file name.
package cueutil
