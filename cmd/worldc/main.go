// SPDX-License-Identifier: MPL-2.0

// Command worldc compiles a YAML world model into a Go package of
// enumerations, relation tables and requirement expressions.
package main

func main() {
	Execute()
}
