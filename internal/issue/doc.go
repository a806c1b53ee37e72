// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error guidance.
//
// ActionableError attaches an operation, a resource and fix-it suggestions to
// an error. The catalogue in issue.go holds Markdown remediation pages, keyed
// by Id and rendered for the terminal with glamour.
package issue
