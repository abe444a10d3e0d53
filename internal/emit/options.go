// SPDX-License-Identifier: MPL-2.0

package emit

const (
	// DefaultPackage is the package name of emitted files.
	DefaultPackage = "world"
	// DefaultRuntimeImport is the import path of the runtime library the
	// emitted code builds on.
	DefaultRuntimeImport = "github.com/invowk/worldc/pkg/logic"

	// WorldFile holds the enumerations and relation tables.
	WorldFile = "world_gen.go"
	// RequirementsFile holds the requirement table.
	RequirementsFile = "requirements_gen.go"
	// ManifestFile holds the input and output digests of a build.
	ManifestFile = "worldc.lock.toml"

	// MaxValues is the largest enumeration the uint16 types can hold; the
	// top value is kept free for the NoExit and NoEntrance sentinels.
	MaxValues = 1<<16 - 1
)

// Options configures Generate.
type Options struct {
	// Package is the package clause of the emitted files.
	Package string
	// RuntimeImport is the import path of the logic runtime package.
	RuntimeImport string
	// Manifest adds ManifestFile to the output.
	Manifest bool
}

func (o Options) withDefaults() Options {
	if o.Package == "" {
		o.Package = DefaultPackage
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = DefaultRuntimeImport
	}
	return o
}
