package domain

import "go.trai.ch/zerr"

var (
	// ErrCyclicGraph is returned when the dependency graph contains a cycle.
	ErrCyclicGraph = zerr.New("dependency graph contains a cycle")

	// ErrUnknownNode is returned when a graph operation references a node
	// outside the graph's node universe.
	ErrUnknownNode = zerr.New("unknown graph node")

	// ErrVendorIntegrity is returned when a vendor package's content does not
	// match its stamped fingerprint. Vendor packages must not be modified.
	ErrVendorIntegrity = zerr.New("vendor package fingerprint mismatch")

	// ErrAgentIntegrity is returned when the agent root content does not match
	// its stamped fingerprint. Run a re-fingerprint to accept the changes.
	ErrAgentIntegrity = zerr.New("agent fingerprint mismatch")

	// ErrComponentIntegrity is returned when a local package's content does
	// not match its stamped fingerprint. Run a re-fingerprint to accept the
	// changes.
	ErrComponentIntegrity = zerr.New("component fingerprint mismatch")

	// ErrPackageInUse is returned when removing a package that other packages
	// still require.
	ErrPackageInUse = zerr.New("package is required by other packages")

	// ErrPackageNotFound is returned when a package cannot be resolved among
	// the declared components or in the registry.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrAmbiguousPackage is returned when a package reference resolves to
	// more than one declared component.
	ErrAmbiguousPackage = zerr.New("package reference is ambiguous")

	// ErrDestinationExists is returned when a copy destination is already
	// occupied.
	ErrDestinationExists = zerr.New("destination already exists")

	// ErrSourceMissing is returned when a copy source does not exist.
	ErrSourceMissing = zerr.New("source does not exist")

	// ErrAlreadyLatest is returned when upgrading a package that is already at
	// the newest known version.
	ErrAlreadyLatest = zerr.New("package is already at the latest version")

	// ErrRequiredByOthers is returned when upgrading a package that other
	// packages depend on.
	ErrRequiredByOthers = zerr.New("package is required by other packages and cannot be upgraded")

	// ErrVendorConflict is returned when upgrading a package that has been
	// forked into a local copy.
	ErrVendorConflict = zerr.New("package has a local copy and cannot be upgraded")

	// ErrDuplicateKey is returned when two distinct files collide on the same
	// normalized fingerprint key.
	ErrDuplicateKey = zerr.New("duplicate fingerprint key")

	// ErrRegistryLookup is returned when a registry operation fails. Lookup
	// failures are surfaced to the caller, never retried.
	ErrRegistryLookup = zerr.New("registry lookup failed")

	// ErrInvalidPublicId is returned when a public id does not match the
	// "author/name:version[:hash]" form.
	ErrInvalidPublicId = zerr.New("invalid public id")

	// ErrInvalidPackageType is returned when a package type is not one of the
	// known types.
	ErrInvalidPackageType = zerr.New("invalid package type")

	// ErrInvalidVersion is returned when a version or version constraint does
	// not parse.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrConfigNotFound is returned when a package manifest is missing from
	// its directory.
	ErrConfigNotFound = zerr.New("package manifest not found")

	// ErrConfigInvalid is returned when a package manifest fails validation.
	ErrConfigInvalid = zerr.New("package manifest invalid")

	// ErrAborted is returned when an interactive confirmation is declined.
	ErrAborted = zerr.New("operation aborted")
)
