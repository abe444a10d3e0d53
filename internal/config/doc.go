// SPDX-License-Identifier: MPL-2.0

// Package config handles worldc project configuration using Viper with CUE as
// the file format.
//
// A project is configured by worldc.cue, looked up at an explicit path or in
// the working directory; with neither present the defaults apply. The file is
// validated against the embedded #Config schema (config_schema.cue) before
// it is merged over the defaults, and WORLDC_* environment variables
// override both. Relative paths in the file are resolved against the
// directory holding it.
package config
