// SPDX-License-Identifier: MPL-2.0

// Package compiler runs the worldc pipeline. A Context is threaded through
// the load, items, graph and emit stages; each stage reads what the earlier
// ones produced and records its own output on the Context. The run stops
// after the first stage that reports errors, and every error that stage
// found is returned together in a StageError.
package compiler
