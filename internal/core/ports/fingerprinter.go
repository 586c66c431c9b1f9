package ports

import "go.trai.ch/wharf/internal/core/domain"

// Fingerprinter defines the interface for computing and checking package
// content fingerprints.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Compute hashes every regular file under root not excluded by the
	// ignore patterns, skipping the named top level directories. Keys are
	// slash separated paths relative to root.
	Compute(root string, ignorePatterns, skipDirs []string) (domain.Fingerprint, error)

	// Verify recomputes the fingerprint of the package directory and
	// compares it against the recorded one. A mismatch fails with the
	// context specific integrity error.
	Verify(cfg *domain.PackageConfiguration, ictx domain.IntegrityContext) error
}
