// SPDX-License-Identifier: MPL-2.0

package emit

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/invowk/worldc/internal/graph"
	"github.com/invowk/worldc/internal/loader"
)

// File is one emitted output file.
type File struct {
	Name string
	Data []byte
}

// Generate renders w. inputs are the digests of the source files w was
// built from; they are only recorded in the manifest.
func Generate(w *graph.World, inputs []loader.FileDigest, opts Options) ([]File, error) {
	opts = opts.withDefaults()
	syms, err := newSymbols(w)
	if err != nil {
		return nil, err
	}

	world, err := generateWorld(w, syms, opts)
	if err != nil {
		return nil, err
	}
	reqs, err := generateRequirements(w, syms, opts)
	if err != nil {
		return nil, err
	}
	files := []File{{Name: WorldFile, Data: world}, {Name: RequirementsFile, Data: reqs}}

	if opts.Manifest {
		data, err := newManifest(w, opts, inputs, files).marshal()
		if err != nil {
			return nil, err
		}
		files = append(files, File{Name: ManifestFile, Data: data})
	}
	return files, nil
}

// WriteDir writes files into dir, creating it if needed. Files whose
// content is already up to date are left untouched. It returns the names
// of the files it wrote.
func WriteDir(dir string, files []File) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}
	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		same, err := unchanged(path, f.Data)
		if err != nil {
			return written, err
		}
		if same {
			continue
		}
		if err := writeAtomic(path, f.Data); err != nil {
			return written, err
		}
		written = append(written, f.Name)
	}
	return written, nil
}

// Stale returns the names of files whose copy in dir is missing or differs.
func Stale(dir string, files []File) ([]string, error) {
	var stale []string
	for _, f := range files {
		same, err := unchanged(filepath.Join(dir, f.Name), f.Data)
		if err != nil {
			return nil, err
		}
		if !same {
			stale = append(stale, f.Name)
		}
	}
	return stale, nil
}

func unchanged(path string, data []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &WriteError{Path: path, Err: err}
	}
	return bytes.Equal(existing, data), nil
}

// writeAtomic replaces path through a temporary file in the same directory
// so that readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	name := tmp.Name()
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(name, 0o644)
	}
	if err == nil {
		err = os.Rename(name, path)
	}
	if err != nil {
		_ = os.Remove(name)
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
