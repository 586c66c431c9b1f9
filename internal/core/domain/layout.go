package domain

import "path/filepath"

const (
	// AgentConfigName is the name of the agent configuration file.
	AgentConfigName = "agent.yaml"

	// VendorDirName is the name of the directory holding vendored packages.
	VendorDirName = "vendor"

	// PackagesDirName is the conventional name of a package registry directory.
	PackagesDirName = "packages"

	// SourceStubName is the name of the source stub file every package carries.
	SourceStubName = "__init__.py"

	// PublicIdVarName is the variable assigned in a package source stub.
	PublicIdVarName = "PUBLIC_ID"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultFingerprintIgnore returns the file patterns excluded from every
// package fingerprint. Configuration files are excluded so that stamping a
// fingerprint into one does not change the fingerprint itself.
func DefaultFingerprintIgnore() []string {
	patterns := []string{".DS_Store", "*.pyc"}
	for _, t := range ComponentTypes() {
		patterns = append(patterns, t.ConfigFileName())
	}
	return append(patterns, AgentConfigName)
}

// AgentSkipDirs returns the top level directories excluded when fingerprinting
// an agent root: the vendor tree and the local package directories.
func AgentSkipDirs() []string {
	dirs := []string{VendorDirName}
	for _, t := range ComponentTypes() {
		dirs = append(dirs, t.Plural())
	}
	return dirs
}

// VendorPath returns the directory of a vendored package inside an agent.
// It joins vendor, the author, the plural type name, and the package name.
func VendorPath(root string, id PackageId) string {
	return filepath.Join(root, VendorDirName, id.PublicId.Author(), id.Type.Plural(), id.PublicId.Name())
}

// LocalPath returns the directory of a local package inside an agent.
// It joins the plural type name and the package name.
func LocalPath(root string, id PackageId) string {
	return filepath.Join(root, id.Type.Plural(), id.PublicId.Name())
}

// RegistryPath returns the directory of a package inside a local registry.
// It joins the author, the plural type name, and the package name.
func RegistryPath(registry string, id PackageId) string {
	return filepath.Join(registry, id.PublicId.Author(), id.Type.Plural(), id.PublicId.Name())
}
