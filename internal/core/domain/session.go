package domain

import "github.com/Masterminds/semver/v3"

// ProjectSession carries the resolved invocation context every operation runs
// against.
type ProjectSession struct {
	// WorkDir is the agent root directory.
	WorkDir string

	// RegistryRoot is the directory of the local package registry.
	RegistryRoot string

	// Author is the author recorded on ejected packages.
	Author string

	// FrameworkVersion is the framework version packages are checked against.
	FrameworkVersion *semver.Version

	// SkipConsistencyCheck disables fingerprint verification before mutating
	// operations.
	SkipConsistencyCheck bool
}

// VendorDir returns the vendor directory of the package inside the agent.
func (s ProjectSession) VendorDir(id PackageId) string {
	return VendorPath(s.WorkDir, id)
}

// LocalDir returns the local directory of the package inside the agent.
func (s ProjectSession) LocalDir(id PackageId) string {
	return LocalPath(s.WorkDir, id)
}

// RegistryDir returns the directory of the package inside the registry.
func (s ProjectSession) RegistryDir(id PackageId) string {
	return RegistryPath(s.RegistryRoot, id)
}
