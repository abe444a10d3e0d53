// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines ActionableError (operation, resource, suggestions, cause) for
// failures reported at the CLI boundary, a catalog of Markdown guidance pages
// keyed by compile-error category, and Diagnostics, an ordered collector that
// lets a compilation stage report every error it finds before the run aborts.
package issue
