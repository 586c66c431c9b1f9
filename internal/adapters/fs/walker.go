// Package fs provides file system adapters for walking, copying, and
// fingerprinting package trees.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// Walker walks package trees, yielding regular files.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields the slash separated relative paths of all regular files
// under root, together with the walk error if any. Version control and
// bytecode cache directories are always skipped; directories named in
// skipDirs are skipped at the top level only.
func (w *Walker) WalkFiles(root string, skipDirs []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if rel == "." {
					return nil
				}
				if w.shouldSkipDir(d.Name(), rel, skipDirs) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}

			if !yield(rel, nil) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// shouldSkipDir checks if a directory should be skipped during the walk.
func (w *Walker) shouldSkipDir(name, rel string, skipDirs []string) bool {
	switch name {
	case ".git", ".jj", "__pycache__":
		return true
	}

	// Top level skips only apply when the directory sits directly under the
	// walk root.
	if strings.Contains(rel, "/") {
		return false
	}
	for _, skip := range skipDirs {
		if name == skip {
			return true
		}
	}
	return false
}
