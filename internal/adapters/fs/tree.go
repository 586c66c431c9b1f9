package fs

import (
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/wharf/internal/core/domain"
	"go.trai.ch/wharf/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileTree = (*Tree)(nil)

// Tree performs the file operations mutating commands need on package trees.
type Tree struct {
	walker *Walker
}

// NewTree creates a new Tree.
func NewTree(walker *Walker) *Tree {
	return &Tree{walker: walker}
}

// Exists reports whether the path exists. Broken symlinks count as existing.
func (t *Tree) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// CopyTree copies the directory tree from src to dst, preserving file modes
// and replicating symlinks. The destination must not exist yet.
func (t *Tree) CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return zerr.With(domain.ErrSourceMissing, "path", src)
	}
	if !info.IsDir() {
		return zerr.With(zerr.New("source is not a directory"), "path", src)
	}
	if t.Exists(dst) {
		return zerr.With(domain.ErrDestinationExists, "path", dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination parent"), "path", dst)
	}

	return filepath.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to walk source tree"), "path", path)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return zerr.Wrap(err, "failed to resolve relative path")
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return t.mkdir(target)
		case d.Type()&iofs.ModeSymlink != 0:
			return t.copyLink(path, target)
		default:
			return t.copyFile(path, target)
		}
	})
}

func (t *Tree) mkdir(path string) error {
	if err := os.MkdirAll(path, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", path)
	}
	return nil
}

func (t *Tree) copyLink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to read symlink"), "path", src)
	}
	if err := os.Symlink(target, dst); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to replicate symlink"), "path", dst)
	}
	return nil
}

func (t *Tree) copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to stat source file"), "path", src)
	}

	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source file"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm()) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination file"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close destination file"), "path", dst)
	}
	return nil
}

// DeleteTree removes the directory tree at path.
func (t *Tree) DeleteTree(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to delete tree"), "path", path)
	}
	return nil
}

// Symlink creates a symbolic link at link pointing to target. The stored
// target is relative to the link's directory so the agent tree stays
// relocatable.
func (t *Tree) Symlink(target, link string) error {
	if err := os.MkdirAll(filepath.Dir(link), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create link parent"), "path", link)
	}
	rel, err := filepath.Rel(filepath.Dir(link), target)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve relative link target")
	}
	if err := os.Symlink(rel, link); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", link)
	}
	return nil
}

// ReadDir lists the entry names in dir, sorted.
func (t *Tree) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read directory"), "path", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadFile returns the file contents.
func (t *Tree) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read file"), "path", path)
	}
	return data, nil
}

// WriteFile replaces the file contents.
func (t *Tree) WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil { //nolint:gosec // Path is controlled by caller
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}

// WalkFiles returns the paths of all regular files under root whose base name
// matches the pattern.
func (t *Tree) WalkFiles(root, pattern string) ([]string, error) {
	var out []string
	for rel, err := range t.walker.WalkFiles(root, nil) {
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to walk tree"), "path", root)
		}
		ok, err := filepath.Match(pattern, filepath.Base(rel))
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid file pattern"), "pattern", pattern)
		}
		if ok {
			out = append(out, filepath.Join(root, filepath.FromSlash(rel)))
		}
	}
	return out, nil
}
