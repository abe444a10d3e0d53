// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/invowk/worldc/internal/issue"
	"github.com/invowk/worldc/internal/items"
)

type (
	// Paths locates the source files of one world model.
	Paths struct {
		WorldDir   string
		MacrosFile string
		ItemsFile  string
		// EntranceTableFile is optional.
		EntranceTableFile string
	}

	// FileDigest is the SHA-256 of one input file.
	FileDigest struct {
		Path   string
		SHA256 string
	}

	// Sources is everything read from disk for one compilation.
	Sources struct {
		World         *World
		Macros        []Entry
		Items         []items.Entry
		EntranceTable []EntranceRow
		// Digests lists every file read, in read order.
		Digests []FileDigest
	}
)

// IsZero reports whether no file was read.
func (d FileDigest) IsZero() bool { return d.Path == "" }

// Load reads every source file. Failures in independent files are all
// reported; the returned error joins them.
func Load(paths Paths) (*Sources, error) {
	var (
		diags issue.Diagnostics
		src   = &Sources{}
		err   error
	)
	addDigest := func(d FileDigest) {
		if !d.IsZero() {
			src.Digests = append(src.Digests, d)
		}
	}

	var digests []FileDigest
	src.World, digests, err = LoadWorld(paths.WorldDir)
	diags.Add(err)
	for _, d := range digests {
		addDigest(d)
	}

	var digest FileDigest
	src.Macros, digest, err = LoadMacros(paths.MacrosFile)
	diags.Add(err)
	addDigest(digest)

	src.Items, digest, err = LoadItems(paths.ItemsFile)
	diags.Add(err)
	addDigest(digest)

	src.EntranceTable, digest, err = LoadEntranceTable(paths.EntranceTableFile)
	diags.Add(err)
	addDigest(digest)

	if err := diags.Err(); err != nil {
		return nil, err
	}
	return src, nil
}

func digestOf(path string, data []byte) FileDigest {
	sum := sha256.Sum256(data)
	return FileDigest{Path: path, SHA256: hex.EncodeToString(sum[:])}
}
