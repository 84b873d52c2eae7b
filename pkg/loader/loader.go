// Package loader reads fixture files from disk.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/marshallshelly/pebble-seed/pkg/fixture"
)

// LoadFromPath reads fixtures from a file or a directory.
// Supports:
// - Single .yaml or .yml file
// - Directory (scans all .yaml/.yml files recursively, in lexical path order)
//
// Batches from several files are concatenated in file order.
func LoadFromPath(path string) (*fixture.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var filesToParse []string

	if info.IsDir() {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isFixtureFile(d.Name()) {
				filesToParse = append(filesToParse, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
	} else {
		if !isFixtureFile(path) {
			return nil, fmt.Errorf("file must have .yaml or .yml extension")
		}
		filesToParse = append(filesToParse, path)
	}

	if len(filesToParse) == 0 {
		return nil, fmt.Errorf("no fixture files found in %s", path)
	}

	slices.Sort(filesToParse)

	merged := &fixture.File{}
	for _, file := range filesToParse {
		f, err := LoadFile(file)
		if err != nil {
			return nil, err
		}
		merged.Batches = append(merged.Batches, f.Batches...)
	}

	return merged, nil
}

// LoadFile reads a single fixture file.
func LoadFile(path string) (*fixture.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	f, err := fixture.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures from %s: %w", path, err)
	}
	return f, nil
}

// LoadFS reads a single fixture file from fsys, typically an embedded one.
func LoadFS(fsys fs.FS, name string) (*fixture.File, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	f, err := fixture.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures from %s: %w", name, err)
	}
	return f, nil
}

func isFixtureFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
