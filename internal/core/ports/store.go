package ports

import "go.trai.ch/wharf/internal/core/domain"

// PackageStore defines the interface for reading and writing package
// manifests.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type PackageStore interface {
	// Load reads the manifest of the given type from dir. The returned
	// configuration carries dir as its directory.
	Load(t domain.PackageType, dir string) (*domain.PackageConfiguration, error)

	// Save writes the package manifest into its directory.
	Save(cfg *domain.PackageConfiguration) error

	// LoadAgent reads the agent manifest from dir, including overrides.
	LoadAgent(dir string) (*domain.AgentConfiguration, error)

	// SaveAgent writes the agent manifest into its directory.
	SaveAgent(cfg *domain.AgentConfiguration) error

	// LoadLocal loads the manifests of all local packages under the agent
	// root, ordered by type and then by name.
	LoadLocal(root string) ([]*domain.PackageConfiguration, error)
}
