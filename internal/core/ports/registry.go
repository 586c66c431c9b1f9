package ports

import "go.trai.ch/wharf/internal/core/domain"

// Registry defines the interface for looking up and fetching packages from a
// package registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// ResolveLatest returns the newest registry version of the package that
	// is compatible with the session's framework version.
	ResolveLatest(sess domain.ProjectSession, prefix domain.PackagePrefix) (domain.PublicId, error)

	// Fetch copies the package with the given id from the registry into dst.
	Fetch(sess domain.ProjectSession, id domain.PackageId, dst string) error
}
