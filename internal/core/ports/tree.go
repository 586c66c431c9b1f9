package ports

// FileTree defines the interface for the file operations mutating commands
// perform on package trees.
//
//go:generate go run go.uber.org/mock/mockgen -source=tree.go -destination=mocks/mock_tree.go -package=mocks
type FileTree interface {
	// Exists reports whether the path exists.
	Exists(path string) bool

	// CopyTree copies the directory tree from src to dst. The destination
	// must not exist yet; parent directories are created as needed.
	CopyTree(src, dst string) error

	// DeleteTree removes the directory tree at path.
	DeleteTree(path string) error

	// Symlink creates a symbolic link at link pointing to target, relative
	// to the link's directory.
	Symlink(target, link string) error

	// ReadDir lists the entry names in dir, sorted.
	ReadDir(dir string) ([]string, error)

	// ReadFile returns the file contents.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file contents.
	WriteFile(path string, data []byte) error

	// WalkFiles returns the paths of all regular files under root whose base
	// name matches the pattern. Version control directories are skipped.
	WalkFiles(root, pattern string) ([]string, error)
}
